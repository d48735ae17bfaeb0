package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"policysim/internal/config"
	"policysim/pkg/contracts/domain"
)

// Sheet names in the summary workbook.
const (
	SheetEarnedPremium = "Earned Premium"
	SheetSeverity      = "Severity"
	SheetFrequency     = "Frequency"
	SheetLossRatio     = "Loss Ratio"
)

// Summary bundles every report table for the combined workbook.
type Summary struct {
	EarnedPremium []domain.EarnedPremiumRow
	Severity      []domain.SeverityRow
	TrendFit      *domain.SeverityTrendFit
	Frequency     []domain.FrequencyRow
	LossRatio     []domain.LossRatioRow
}

// WorkbookBuilder assembles the combined actuarial summary workbook
// with one sheet per report and a severity trend chart.
type WorkbookBuilder struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookBuilder creates a new workbook builder
func NewWorkbookBuilder(paths *config.Paths, logger *slog.Logger) *WorkbookBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookBuilder{paths: paths, logger: logger}
}

// Build writes the summary workbook to the reports directory.
func (b *WorkbookBuilder) Build(ctx context.Context, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build summary workbook: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEarnedPremium); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSeverity, SheetFrequency, SheetLossRatio} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := b.writeEarnedPremium(f, headerStyle, summary.EarnedPremium); err != nil {
		return err
	}
	if err := b.writeSeverity(f, headerStyle, summary.Severity, summary.TrendFit); err != nil {
		return err
	}
	if err := b.writeFrequency(f, headerStyle, summary.Frequency); err != nil {
		return err
	}
	if err := b.writeLossRatio(f, headerStyle, summary.LossRatio); err != nil {
		return err
	}

	path := b.paths.SummaryWorkbook
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save summary workbook: %w", err)
	}

	b.logger.InfoContext(ctx, "summary workbook written",
		"path", path,
		"earned_rows", len(summary.EarnedPremium),
		"severity_rows", len(summary.Severity))
	return nil
}

func (b *WorkbookBuilder) writeEarnedPremium(f *excelize.File, style int, rows []domain.EarnedPremiumRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{
			row.Year, row.WrittenPremium, row.EarnedPremium, row.PoliciesWritten, row.PoliciesInForce,
		})
	}
	return writeSheet(f, SheetEarnedPremium, style, EarnedPremiumHeader, data)
}

func (b *WorkbookBuilder) writeSeverity(f *excelize.File, style int, rows []domain.SeverityRow, fit *domain.SeverityTrendFit) error {
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{
			row.Year, row.ClaimCount, row.TotalSeverity, row.AvgSeverity,
		})
	}
	if err := writeSheet(f, SheetSeverity, style, SeverityHeader, data); err != nil {
		return err
	}

	// Fitted trend block to the right of the table
	if fit != nil {
		labels := [][]interface{}{
			{"fitted_annual_trend", fit.AnnualTrend},
			{"intercept_log_severity", fit.Intercept},
			{"base_year", fit.BaseYear},
			{"r_squared", fit.RSquared},
			{"years_fitted", fit.Years},
		}
		for i, pair := range labels {
			cell, err := excelize.CoordinatesToCellName(6, i+1)
			if err != nil {
				return fmt.Errorf("trend block cell: %w", err)
			}
			if err := f.SetSheetRow(SheetSeverity, cell, &pair); err != nil {
				return fmt.Errorf("write trend block: %w", err)
			}
		}
	}

	if len(rows) < 2 {
		return nil
	}
	return b.addSeverityChart(f, len(rows))
}

// addSeverityChart plots average severity by occurrence year so the
// simulated trend is visible at a glance.
func (b *WorkbookBuilder) addSeverityChart(f *excelize.File, rowCount int) error {
	lastRow := rowCount + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$D$1", SheetSeverity),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", SheetSeverity, lastRow),
				Values:     fmt.Sprintf("'%s'!$D$2:$D$%d", SheetSeverity, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Average severity by occurrence year"},
		},
	}
	if err := f.AddChart(SheetSeverity, "H8", chart); err != nil {
		return fmt.Errorf("add severity chart: %w", err)
	}
	return nil
}

func (b *WorkbookBuilder) writeFrequency(f *excelize.File, style int, rows []domain.FrequencyRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{
			row.Year, row.EarnedExposure, row.ClaimCount, row.Frequency,
		})
	}
	return writeSheet(f, SheetFrequency, style, FrequencyHeader, data)
}

func (b *WorkbookBuilder) writeLossRatio(f *excelize.File, style int, rows []domain.LossRatioRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{
			row.Year, row.EarnedPremium, row.IncurredLosses, row.LossRatio,
		})
	}
	return writeSheet(f, SheetLossRatio, style, LossRatioHeader, data)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}) error {
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write %q header: %w", sheet, err)
	}

	lastCol, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("style %q header: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %q row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
