package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"policysim/internal/config"
	"policysim/internal/exporter"
	"policysim/internal/infrastructure"
	"policysim/internal/metrics"
	"policysim/internal/operations"
	"policysim/internal/simulation"
	"policysim/pkg/contracts/domain"
)

// SimulationService owns portfolio generation and the operation pipeline
type SimulationService struct {
	manager    *operations.Manager
	portfolios *simulation.PortfolioGenerator
	claims     *simulation.ClaimSimulator
	telemetry  *infrastructure.Metrics
	logger     *slog.Logger
}

// SimulationResult summarizes an ad-hoc portfolio generation
type SimulationResult struct {
	Policies       []domain.Policy `json:"policies,omitempty"`
	Claims         []domain.Claim  `json:"claims,omitempty"`
	PolicyCount    int             `json:"policy_count"`
	ClaimCount     int             `json:"claim_count"`
	WrittenPremium float64         `json:"written_premium"`
	TotalSeverity  float64         `json:"total_severity"`
	Duration       time.Duration   `json:"duration"`
}

// NewSimulationService builds the service and wires the full pipeline
func NewSimulationService(paths *config.Paths, telemetry *infrastructure.Metrics, logger *slog.Logger) (*SimulationService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	portfolios := simulation.NewPortfolioGenerator(logger)
	claims := simulation.NewClaimSimulator(logger)
	writer := exporter.NewCSVWriter(paths)

	manager := operations.NewManager(operations.NewConfig(), logger)
	steps := []operations.Step{
		operations.NewSimulateStep(portfolios, claims, exporter.NewDatasetExporter(writer, paths, logger), logger),
		operations.NewMetricsStep(metrics.NewBuilder(logger), logger),
		operations.NewExportStep(
			exporter.NewReportExporter(writer, paths, logger),
			exporter.NewWorkbookBuilder(paths, logger),
			paths,
			logger,
		),
	}
	for _, step := range steps {
		if err := manager.RegisterStep(step); err != nil {
			return nil, fmt.Errorf("register step %s: %w", step.ID(), err)
		}
	}

	logger.Info("simulation service initialized",
		slog.String("datasets_dir", paths.DatasetsDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.Int("pipeline_steps", len(steps)))

	return &SimulationService{
		manager:    manager,
		portfolios: portfolios,
		claims:     claims,
		telemetry:  telemetry,
		logger:     logger,
	}, nil
}

// SimulatePortfolio generates a portfolio and its claims without
// touching the filesystem. Used by the ad-hoc simulation endpoint.
func (s *SimulationService) SimulatePortfolio(ctx context.Context, portfolioSpec simulation.PortfolioSpec, claimSpec simulation.ClaimSpec, includeRecords bool) (*SimulationResult, error) {
	start := time.Now()

	policies, err := s.portfolios.Generate(ctx, portfolioSpec)
	if err != nil {
		return nil, fmt.Errorf("generate portfolio: %w", err)
	}
	claims, err := s.claims.Simulate(ctx, claimSpec, policies)
	if err != nil {
		return nil, fmt.Errorf("simulate claims: %w", err)
	}

	result := &SimulationResult{
		PolicyCount: len(policies),
		ClaimCount:  len(claims),
		Duration:    time.Since(start),
	}
	for i := range policies {
		result.WrittenPremium += policies[i].WrittenPremium
	}
	for i := range claims {
		result.TotalSeverity += claims[i].Severity
	}
	if includeRecords {
		result.Policies = policies
		result.Claims = claims
	}

	s.recordSimulation(ctx, "adhoc", result)
	s.logger.InfoContext(ctx, "portfolio simulated",
		"policies", result.PolicyCount,
		"claims", result.ClaimCount,
		"duration", result.Duration)
	return result, nil
}

// StartOperation launches a pipeline run in the background
func (s *SimulationService) StartOperation(ctx context.Context, req operations.OperationRequest) (string, error) {
	snap, err := s.manager.Start(ctx, req)
	if err != nil {
		return "", fmt.Errorf("start operation: %w", err)
	}

	if s.telemetry != nil {
		s.telemetry.SimulationRuns.Add(ctx, 1,
			metric.WithAttributes(attribute.String("mode", "pipeline")))
	}
	s.logger.InfoContext(ctx, "operation started",
		"operation_id", snap.ID,
		"step", req.Step)
	return snap.ID, nil
}

// ExecuteOperation runs a pipeline synchronously, used by the CLI tools
func (s *SimulationService) ExecuteOperation(ctx context.Context, req operations.OperationRequest) (*operations.OperationResponse, error) {
	start := time.Now()
	resp, err := s.manager.Execute(ctx, req)
	if s.telemetry != nil {
		s.telemetry.SimulationRuns.Add(ctx, 1,
			metric.WithAttributes(attribute.String("mode", "sync")))
		s.telemetry.SimulationDuration.Record(ctx, time.Since(start).Seconds())
	}
	return resp, err
}

// GetOperation returns the current state of a run
func (s *SimulationService) GetOperation(ctx context.Context, id string) (*operations.OperationState, error) {
	return s.manager.GetOperation(id)
}

// ListOperations returns every stored run, newest first
func (s *SimulationService) ListOperations(ctx context.Context) []*operations.OperationState {
	return s.manager.ListOperations()
}

// CancelOperation cancels a running operation
func (s *SimulationService) CancelOperation(ctx context.Context, id string) error {
	return s.manager.CancelOperation(id)
}

func (s *SimulationService) recordSimulation(ctx context.Context, mode string, result *SimulationResult) {
	if s.telemetry == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("mode", mode))
	s.telemetry.SimulationRuns.Add(ctx, 1, attrs)
	s.telemetry.SimulationDuration.Record(ctx, result.Duration.Seconds(), attrs)
	s.telemetry.PoliciesGenerated.Add(ctx, int64(result.PolicyCount))
	s.telemetry.ClaimsGenerated.Add(ctx, int64(result.ClaimCount))
}
