package http

import (
	"context"

	"policysim/internal/operations"
	"policysim/internal/services"
	"policysim/internal/simulation"
	"policysim/pkg/contracts/domain"
)

// SimulationServiceInterface defines the simulation operations the
// handlers need. Satisfied by services.SimulationService.
type SimulationServiceInterface interface {
	SimulatePortfolio(ctx context.Context, portfolioSpec simulation.PortfolioSpec, claimSpec simulation.ClaimSpec, includeRecords bool) (*services.SimulationResult, error)
	StartOperation(ctx context.Context, req operations.OperationRequest) (string, error)
	GetOperation(ctx context.Context, id string) (*operations.OperationState, error)
	ListOperations(ctx context.Context) []*operations.OperationState
	CancelOperation(ctx context.Context, id string) error
}

// ReportServiceInterface defines the report operations the handlers
// need. Satisfied by services.ReportService.
type ReportServiceInterface interface {
	BuildFromStoredDatasets(ctx context.Context) (*operations.ReportSet, error)
	ListArtifacts(ctx context.Context) ([]domain.ReportArtifact, error)
	ArtifactPath(name string) (string, error)
}

// HealthServiceInterface defines the health check the handlers need.
// Satisfied by services.HealthService.
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}
