package exporter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/pkg/contracts/domain"
)

// TestExportEarnedPremium tests the earned premium report CSV layout
func TestExportEarnedPremium(t *testing.T) {
	writer, paths := testWriter(t)
	exporter := NewReportExporter(writer, paths, nil)

	rows := []domain.EarnedPremiumRow{
		{Year: 2023, WrittenPremium: 120000, EarnedPremium: 60000.5, PoliciesWritten: 100, PoliciesInForce: 100},
		{Year: 2024, WrittenPremium: 0, EarnedPremium: 59999.5, PoliciesWritten: 0, PoliciesInForce: 100},
	}
	require.NoError(t, exporter.ExportEarnedPremium(context.Background(), rows))

	data, err := os.ReadFile(paths.EarnedPremiumCSV)
	require.NoError(t, err)
	assert.Equal(t,
		"year,written_premium,earned_premium,policies_written,policies_in_force\n"+
			"2023,120000.00,60000.50,100,100\n"+
			"2024,0.00,59999.50,0,100\n",
		string(data[3:]))
}

// TestExportFrequency tests exposure precision in the frequency report
func TestExportFrequency(t *testing.T) {
	writer, paths := testWriter(t)
	exporter := NewReportExporter(writer, paths, nil)

	rows := []domain.FrequencyRow{
		{Year: 2023, EarnedExposure: 50.4, ClaimCount: 5, Frequency: 0.099206},
	}
	require.NoError(t, exporter.ExportFrequency(context.Background(), rows))

	data, err := os.ReadFile(paths.FrequencyCSV)
	require.NoError(t, err)
	assert.Equal(t,
		"year,earned_exposure,claim_count,frequency\n2023,50.400000,5,0.0992\n",
		string(data[3:]))
}

// TestExportEmptyReport tests that an empty report is rejected
func TestExportEmptyReport(t *testing.T) {
	writer, paths := testWriter(t)
	exporter := NewReportExporter(writer, paths, nil)

	err := exporter.ExportSeverity(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

// TestExportCancelled tests context cancellation before writing
func TestExportCancelled(t *testing.T) {
	writer, paths := testWriter(t)
	exporter := NewReportExporter(writer, paths, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exporter.ExportLossRatio(ctx, []domain.LossRatioRow{{Year: 2023}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
