package exporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"policysim/internal/config"
	"policysim/pkg/contracts/domain"
)

func testSummary() Summary {
	return Summary{
		EarnedPremium: []domain.EarnedPremiumRow{
			{Year: 2023, WrittenPremium: 100000, EarnedPremium: 50000, PoliciesWritten: 100, PoliciesInForce: 100},
			{Year: 2024, EarnedPremium: 50000, PoliciesInForce: 100},
		},
		Severity: []domain.SeverityRow{
			{Year: 2023, ClaimCount: 10, TotalSeverity: 40000, AvgSeverity: 4000},
			{Year: 2024, ClaimCount: 12, TotalSeverity: 52800, AvgSeverity: 4400},
		},
		TrendFit: &domain.SeverityTrendFit{
			AnnualTrend: 0.10,
			Intercept:   8.294,
			BaseYear:    2023,
			RSquared:    1.0,
			Years:       2,
		},
		Frequency: []domain.FrequencyRow{
			{Year: 2023, EarnedExposure: 50.0, ClaimCount: 10, Frequency: 0.2},
		},
		LossRatio: []domain.LossRatioRow{
			{Year: 2023, EarnedPremium: 50000, IncurredLosses: 40000, LossRatio: 0.8},
		},
	}
}

// TestWorkbookBuilder tests the combined summary workbook layout
func TestWorkbookBuilder(t *testing.T) {
	paths := config.PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirs())

	builder := NewWorkbookBuilder(paths, nil)
	require.NoError(t, builder.Build(context.Background(), testSummary()))

	f, err := excelize.OpenFile(paths.SummaryWorkbook)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{SheetEarnedPremium, SheetSeverity, SheetFrequency, SheetLossRatio},
		f.GetSheetList())

	// Header and first data row on the earned premium sheet
	header, err := f.GetCellValue(SheetEarnedPremium, "A1")
	require.NoError(t, err)
	assert.Equal(t, "year", header)

	earned, err := f.GetCellValue(SheetEarnedPremium, "C2")
	require.NoError(t, err)
	assert.Equal(t, "50000", earned)

	// Severity trend block sits to the right of the table
	label, err := f.GetCellValue(SheetSeverity, "F1")
	require.NoError(t, err)
	assert.Equal(t, "fitted_annual_trend", label)

	trend, err := f.GetCellValue(SheetSeverity, "G1")
	require.NoError(t, err)
	assert.Equal(t, "0.1", trend)
}

// TestWorkbookBuilderCancelled tests context cancellation before building
func TestWorkbookBuilderCancelled(t *testing.T) {
	paths := config.PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirs())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWorkbookBuilder(paths, nil).Build(ctx, testSummary())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
