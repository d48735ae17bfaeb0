package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"policysim/internal/config"
	"policysim/internal/exporter"
	"policysim/internal/metrics"
	"policysim/internal/simulation"
	"policysim/pkg/contracts/domain"
)

// ContextKeyRequest carries the typed request into the pipeline
const ContextKeyRequest = "request"

// requestFromState pulls the typed operation request out of the state
func requestFromState(state *OperationState) (OperationRequest, error) {
	val, ok := state.GetContext(ContextKeyRequest)
	if !ok {
		return OperationRequest{}, NewFatalError("operation request missing from state", nil)
	}
	req, ok := val.(OperationRequest)
	if !ok {
		return OperationRequest{}, NewFatalError("operation request has wrong type", nil)
	}
	return req, nil
}

// SimulateStep generates the synthetic portfolio and claim datasets
type SimulateStep struct {
	BaseStep
	portfolios *simulation.PortfolioGenerator
	claims     *simulation.ClaimSimulator
	datasets   *exporter.DatasetExporter
	logger     *slog.Logger
}

// NewSimulateStep creates the portfolio simulation step
func NewSimulateStep(portfolios *simulation.PortfolioGenerator, claims *simulation.ClaimSimulator, datasets *exporter.DatasetExporter, logger *slog.Logger) *SimulateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulateStep{
		BaseStep:   NewBaseStep(StepIDSimulate, StepNameSimulate, nil),
		portfolios: portfolios,
		claims:     claims,
		datasets:   datasets,
		logger:     logger,
	}
}

// Validate checks the simulation specs before running
func (s *SimulateStep) Validate(state *OperationState) error {
	req, err := requestFromState(state)
	if err != nil {
		return err
	}
	if err := req.Portfolio.Validate(); err != nil {
		return fmt.Errorf("portfolio spec: %w", err)
	}
	if err := req.Claims.Validate(); err != nil {
		return fmt.Errorf("claim spec: %w", err)
	}
	return nil
}

// Execute generates policies and claims and writes the dataset CSVs
func (s *SimulateStep) Execute(ctx context.Context, state *OperationState) error {
	req, err := requestFromState(state)
	if err != nil {
		return err
	}
	stepState := state.GetStep(s.ID())

	stepState.UpdateProgress(10, "generating policy book")
	policies, err := s.portfolios.Generate(ctx, req.Portfolio)
	if err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("generate portfolio: %w", err), false)
	}

	stepState.UpdateProgress(40, "simulating claims")
	claims, err := s.claims.Simulate(ctx, req.Claims, policies)
	if err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("simulate claims: %w", err), false)
	}

	stepState.UpdateProgress(70, "writing datasets")
	if err := s.datasets.ExportPolicies(ctx, policies); err != nil {
		return NewExecutionError(s.ID(), err, true)
	}
	if err := s.datasets.ExportClaims(ctx, claims); err != nil {
		return NewExecutionError(s.ID(), err, true)
	}

	state.SetContext(ContextKeyPolicies, policies)
	state.SetContext(ContextKeyClaims, claims)
	stepState.SetMetadata("policies", len(policies))
	stepState.SetMetadata("claims", len(claims))

	s.logger.InfoContext(ctx, "simulation step finished",
		"operation_id", state.ID,
		"policies", len(policies),
		"claims", len(claims))
	return nil
}

// MetricsStep builds the actuarial report tables from the datasets
type MetricsStep struct {
	BaseStep
	builder *metrics.Builder
	logger  *slog.Logger
}

// NewMetricsStep creates the report building step
func NewMetricsStep(builder *metrics.Builder, logger *slog.Logger) *MetricsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsStep{
		BaseStep: NewBaseStep(StepIDMetrics, StepNameMetrics, []string{StepIDSimulate}),
		builder:  builder,
		logger:   logger,
	}
}

// Execute builds every report table from the simulated datasets
func (m *MetricsStep) Execute(ctx context.Context, state *OperationState) error {
	policies, claims, err := datasetsFromState(state)
	if err != nil {
		return err
	}
	stepState := state.GetStep(m.ID())

	stepState.UpdateProgress(10, "building earned premium report")
	earned, err := m.builder.EarnedPremium(ctx, policies)
	if err != nil {
		return NewExecutionError(m.ID(), fmt.Errorf("earned premium: %w", err), false)
	}

	stepState.UpdateProgress(35, "building severity report")
	severity, fit, err := m.builder.Severity(ctx, claims)
	if err != nil {
		return NewExecutionError(m.ID(), fmt.Errorf("severity: %w", err), false)
	}

	stepState.UpdateProgress(60, "building frequency report")
	frequency, err := m.builder.Frequency(ctx, policies, claims)
	if err != nil {
		return NewExecutionError(m.ID(), fmt.Errorf("frequency: %w", err), false)
	}

	stepState.UpdateProgress(85, "building loss ratio report")
	lossRatio, err := m.builder.LossRatio(ctx, policies, claims)
	if err != nil {
		return NewExecutionError(m.ID(), fmt.Errorf("loss ratio: %w", err), false)
	}

	reports := &ReportSet{
		EarnedPremium: earned,
		Severity:      severity,
		Frequency:     frequency,
		LossRatio:     lossRatio,
	}
	if fit.Years > 0 {
		reports.TrendFit = &fit
	}
	state.SetContext(ContextKeyReports, reports)
	stepState.SetMetadata("report_years", len(earned))

	m.logger.InfoContext(ctx, "metrics step finished",
		"operation_id", state.ID,
		"earned_years", len(earned),
		"severity_years", len(severity))
	return nil
}

func datasetsFromState(state *OperationState) ([]domain.Policy, []domain.Claim, error) {
	policiesVal, ok := state.GetContext(ContextKeyPolicies)
	if !ok {
		return nil, nil, NewValidationError(StepIDMetrics, "no policies in operation state")
	}
	claimsVal, ok := state.GetContext(ContextKeyClaims)
	if !ok {
		return nil, nil, NewValidationError(StepIDMetrics, "no claims in operation state")
	}
	policies, ok := policiesVal.([]domain.Policy)
	if !ok {
		return nil, nil, NewFatalError("policies in state have wrong type", nil)
	}
	claims, ok := claimsVal.([]domain.Claim)
	if !ok {
		return nil, nil, NewFatalError("claims in state have wrong type", nil)
	}
	return policies, claims, nil
}

// ExportStep writes the report CSVs and the combined summary workbook
type ExportStep struct {
	BaseStep
	reports  *exporter.ReportExporter
	workbook *exporter.WorkbookBuilder
	paths    *config.Paths
	logger   *slog.Logger
}

// NewExportStep creates the file export step
func NewExportStep(reports *exporter.ReportExporter, workbook *exporter.WorkbookBuilder, paths *config.Paths, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, StepNameExport, []string{StepIDMetrics}),
		reports:  reports,
		workbook: workbook,
		paths:    paths,
		logger:   logger,
	}
}

// Execute writes every report artifact to the reports directory
func (e *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	val, ok := state.GetContext(ContextKeyReports)
	if !ok {
		return NewValidationError(e.ID(), "no reports in operation state")
	}
	reports, ok := val.(*ReportSet)
	if !ok {
		return NewFatalError("reports in state have wrong type", nil)
	}
	stepState := state.GetStep(e.ID())

	stepState.UpdateProgress(10, "writing report CSVs")
	if err := e.reports.ExportEarnedPremium(ctx, reports.EarnedPremium); err != nil {
		return NewExecutionError(e.ID(), err, true)
	}
	if err := e.reports.ExportSeverity(ctx, reports.Severity); err != nil {
		return NewExecutionError(e.ID(), err, true)
	}
	if err := e.reports.ExportFrequency(ctx, reports.Frequency); err != nil {
		return NewExecutionError(e.ID(), err, true)
	}
	if err := e.reports.ExportLossRatio(ctx, reports.LossRatio); err != nil {
		return NewExecutionError(e.ID(), err, true)
	}

	stepState.UpdateProgress(70, "building summary workbook")
	summary := exporter.Summary{
		EarnedPremium: reports.EarnedPremium,
		Severity:      reports.Severity,
		TrendFit:      reports.TrendFit,
		Frequency:     reports.Frequency,
		LossRatio:     reports.LossRatio,
	}
	if err := e.workbook.Build(ctx, summary); err != nil {
		return NewExecutionError(e.ID(), err, true)
	}

	artifacts := e.collectArtifacts()
	state.SetContext(ContextKeyArtifacts, artifacts)
	stepState.SetMetadata("artifacts", len(artifacts))

	e.logger.InfoContext(ctx, "export step finished",
		"operation_id", state.ID,
		"artifacts", len(artifacts))
	return nil
}

// collectArtifacts stats the known report files and describes the ones
// that exist.
func (e *ExportStep) collectArtifacts() []domain.ReportArtifact {
	candidates := []struct {
		path string
		typ  string
	}{
		{e.paths.EarnedPremiumCSV, "csv"},
		{e.paths.SeverityCSV, "csv"},
		{e.paths.FrequencyCSV, "csv"},
		{e.paths.LossRatioCSV, "csv"},
		{e.paths.SummaryWorkbook, "excel"},
	}

	var artifacts []domain.ReportArtifact
	for _, c := range candidates {
		info, err := os.Stat(c.path)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, domain.ReportArtifact{
			Name:        filepath.Base(c.path),
			Type:        c.typ,
			Path:        c.path,
			SizeBytes:   info.Size(),
			GeneratedAt: time.Now(),
		})
	}
	return artifacts
}
