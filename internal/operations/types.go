package operations

import (
	"time"

	"policysim/internal/simulation"
	"policysim/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDSimulate = "simulate"
	StepIDMetrics  = "metrics"
	StepIDExport   = "export"
)

// Step names
const (
	StepNameSimulate = "Portfolio Simulation"
	StepNameMetrics  = "Report Building"
	StepNameExport   = "File Export"
)

// Context keys for values passed between steps
const (
	ContextKeyPolicies  = "policies"
	ContextKeyClaims    = "claims"
	ContextKeyReports   = "reports"
	ContextKeyArtifacts = "artifacts"
)

// Default timeouts
const (
	DefaultStepTimeout     = 5 * time.Minute
	DefaultSimulateTimeout = 10 * time.Minute
	DefaultMetricsTimeout  = 5 * time.Minute
	DefaultExportTimeout   = 5 * time.Minute
)

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// OperationRequest describes a run of the analysis pipeline
type OperationRequest struct {
	ID        string                   `json:"id,omitempty"`
	Portfolio simulation.PortfolioSpec `json:"portfolio"`
	Claims    simulation.ClaimSpec     `json:"claims"`

	// Step restricts the run to a single pipeline step. Empty means
	// the full pipeline.
	Step string `json:"step,omitempty"`
}

// OperationResponse is the terminal result of an operation run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatus       `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}

// ReportSet bundles the report tables produced by the metrics step
type ReportSet struct {
	EarnedPremium []domain.EarnedPremiumRow `json:"earned_premium"`
	Severity      []domain.SeverityRow      `json:"severity"`
	TrendFit      *domain.SeverityTrendFit  `json:"trend_fit,omitempty"`
	Frequency     []domain.FrequencyRow     `json:"frequency"`
	LossRatio     []domain.LossRatioRow     `json:"loss_ratio"`
}
