package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"policysim/internal/config"
	"policysim/pkg/contracts/domain"
)

// CSV column layouts for the report files.
var (
	EarnedPremiumHeader = []string{"year", "written_premium", "earned_premium", "policies_written", "policies_in_force"}
	SeverityHeader      = []string{"year", "claim_count", "total_severity", "avg_severity"}
	FrequencyHeader     = []string{"year", "earned_exposure", "claim_count", "frequency"}
	LossRatioHeader     = []string{"year", "earned_premium", "incurred_losses", "loss_ratio"}
)

// ReportExporter writes actuarial report tables as CSV files in the
// reports directory.
type ReportExporter struct {
	writer *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(writer *CSVWriter, paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		writer: writer,
		paths:  paths,
		logger: logger,
	}
}

// ExportEarnedPremium writes the earned premium report CSV.
func (e *ReportExporter) ExportEarnedPremium(ctx context.Context, rows []domain.EarnedPremiumRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			formatFloat(row.WrittenPremium),
			formatFloat(row.EarnedPremium),
			formatInt(row.PoliciesWritten),
			formatInt(row.PoliciesInForce),
		})
	}
	return e.export(ctx, "earned premium", e.paths.EarnedPremiumCSV, EarnedPremiumHeader, records)
}

// ExportSeverity writes the loss severity report CSV.
func (e *ReportExporter) ExportSeverity(ctx context.Context, rows []domain.SeverityRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			formatInt(row.ClaimCount),
			formatFloat(row.TotalSeverity),
			formatFloat(row.AvgSeverity),
		})
	}
	return e.export(ctx, "severity", e.paths.SeverityCSV, SeverityHeader, records)
}

// ExportFrequency writes the claim frequency report CSV.
func (e *ReportExporter) ExportFrequency(ctx context.Context, rows []domain.FrequencyRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			formatExposure(row.EarnedExposure),
			formatInt(row.ClaimCount),
			formatRatio(row.Frequency),
		})
	}
	return e.export(ctx, "frequency", e.paths.FrequencyCSV, FrequencyHeader, records)
}

// ExportLossRatio writes the loss ratio report CSV.
func (e *ReportExporter) ExportLossRatio(ctx context.Context, rows []domain.LossRatioRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			formatFloat(row.EarnedPremium),
			formatFloat(row.IncurredLosses),
			formatRatio(row.LossRatio),
		})
	}
	return e.export(ctx, "loss ratio", e.paths.LossRatioCSV, LossRatioHeader, records)
}

func (e *ReportExporter) export(ctx context.Context, name, path string, headers []string, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export %s report: %w", name, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("export %s report: no rows to write", name)
	}

	e.logger.InfoContext(ctx, "exporting report",
		"report", name,
		"path", path,
		"rows", len(records))

	if err := e.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("export %s report: %w", name, err)
	}
	return nil
}
