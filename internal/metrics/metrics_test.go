package metrics

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func annualPolicy(number string, inception time.Time, premium float64) domain.Policy {
	return domain.Policy{
		ID:             number,
		PolicyNumber:   number,
		InceptionDate:  inception,
		ExpirationDate: inception.AddDate(1, 0, -1),
		WrittenPremium: premium,
		Status:         domain.PolicyStatusInForce,
	}
}

func claim(number, policyID string, occurrence time.Time, severity float64) domain.Claim {
	return domain.Claim{
		ID:             number,
		ClaimNumber:    number,
		PolicyID:       policyID,
		OccurrenceDate: occurrence,
		ReportDate:     occurrence,
		Severity:       severity,
		Status:         domain.ClaimStatusClosed,
	}
}

// TestEarnedPremiumGolden tests the earned premium report against
// hand-computed values for a small fixed portfolio.
func TestEarnedPremiumGolden(t *testing.T) {
	builder := NewBuilder(nil)

	policies := []domain.Policy{
		// Full calendar-year 2023 policy: fully earned in 2023.
		annualPolicy("P1", date(2023, 1, 1), 1000),
		// Oct 1 2023 inception: 92/366 earned in 2023, 274/366 in 2024
		// (term Oct 1 2023 .. Sep 30 2024 spans 366 days, leap February).
		annualPolicy("P2", date(2023, 10, 1), 1200),
	}

	rows, err := builder.EarnedPremium(context.Background(), policies)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	r2023, r2024 := rows[0], rows[1]
	assert.Equal(t, 2023, r2023.Year)
	assert.Equal(t, 2024, r2024.Year)

	assert.InDelta(t, 2200, r2023.WrittenPremium, 1e-9)
	assert.Equal(t, 2, r2023.PoliciesWritten)
	assert.Equal(t, 2, r2023.PoliciesInForce)
	assert.InDelta(t, 1000+1200*92.0/366.0, r2023.EarnedPremium, 1e-9)

	assert.Zero(t, r2024.WrittenPremium)
	assert.Equal(t, 0, r2024.PoliciesWritten)
	assert.Equal(t, 1, r2024.PoliciesInForce)
	assert.InDelta(t, 1200*274.0/366.0, r2024.EarnedPremium, 1e-9)

	// Earned slices reconcile to total written premium.
	assert.InDelta(t, 2200, r2023.EarnedPremium+r2024.EarnedPremium, 1e-9)
}

// TestEarnedPremiumReconciliation tests that earned always sums to written
func TestEarnedPremiumReconciliation(t *testing.T) {
	builder := NewBuilder(nil)

	var policies []domain.Policy
	totalWritten := 0.0
	for i := 0; i < 36; i++ {
		inception := date(2022, 1, 1).AddDate(0, i, 10)
		premium := 500 + float64(i)*37.5
		policies = append(policies, annualPolicy("P", inception, premium))
		totalWritten += premium
	}

	rows, err := builder.EarnedPremium(context.Background(), policies)
	require.NoError(t, err)

	earned, written := 0.0, 0.0
	for _, row := range rows {
		earned += row.EarnedPremium
		written += row.WrittenPremium
	}
	assert.InDelta(t, totalWritten, written, 1e-9)
	assert.InDelta(t, totalWritten, earned, 1e-6)
}

// TestEarnedPremiumEmptyDataset tests rejection of empty input
func TestEarnedPremiumEmptyDataset(t *testing.T) {
	_, err := NewBuilder(nil).EarnedPremium(context.Background(), nil)
	require.Error(t, err)
}

// TestSeverityReportAndTrendFit tests yearly aggregation and the fitted trend
func TestSeverityReportAndTrendFit(t *testing.T) {
	builder := NewBuilder(nil)

	// Average severities follow an exact 10% annual trend, two claims per
	// year placed symmetrically around the average.
	var claims []domain.Claim
	base := 4000.0
	for i := 0; i < 5; i++ {
		year := 2020 + i
		avg := base * math.Pow(1.10, float64(i))
		claims = append(claims,
			claim("C", "P", date(year, 3, 10), avg*0.8),
			claim("C", "P", date(year, 9, 22), avg*1.2),
		)
	}

	rows, fit, err := builder.Severity(context.Background(), claims)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for i, row := range rows {
		assert.Equal(t, 2020+i, row.Year)
		assert.Equal(t, 2, row.ClaimCount)
		assert.InDelta(t, base*math.Pow(1.10, float64(i)), row.AvgSeverity, 1e-6)
		assert.InDelta(t, row.AvgSeverity*2, row.TotalSeverity, 1e-6)
	}

	assert.Equal(t, 2020, fit.BaseYear)
	assert.Equal(t, 5, fit.Years)
	assert.InDelta(t, 0.10, fit.AnnualTrend, 1e-9)
	assert.InDelta(t, math.Log(base), fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
}

// TestSeverityTrendFitTooFewYears tests that a single year yields no fit
func TestSeverityTrendFitTooFewYears(t *testing.T) {
	builder := NewBuilder(nil)

	rows, fit, err := builder.Severity(context.Background(), []domain.Claim{
		claim("C1", "P", date(2024, 5, 1), 1000),
		claim("C2", "P", date(2024, 8, 1), 3000),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ClaimCount)
	assert.Zero(t, fit.Years, "no trend fit from a single year")
}

// TestFrequencyReport tests claims per earned policy-year
func TestFrequencyReport(t *testing.T) {
	builder := NewBuilder(nil)

	// One full-calendar-year 2023 policy: exposure 1.0 policy-years in 2023.
	policies := []domain.Policy{annualPolicy("P1", date(2023, 1, 1), 1000)}
	claims := []domain.Claim{
		claim("C1", "P1", date(2023, 2, 1), 500),
		claim("C2", "P1", date(2023, 7, 15), 800),
	}

	rows, err := builder.Frequency(context.Background(), policies, claims)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 2023, rows[0].Year)
	assert.InDelta(t, 365.0/365.25, rows[0].EarnedExposure, 1e-9)
	assert.Equal(t, 2, rows[0].ClaimCount)
	assert.InDelta(t, 2.0/(365.0/365.25), rows[0].Frequency, 1e-9)
}

// TestLossRatioReport tests earned premium against incurred losses by year
func TestLossRatioReport(t *testing.T) {
	builder := NewBuilder(nil)

	policies := []domain.Policy{annualPolicy("P1", date(2023, 1, 1), 10000)}
	claims := []domain.Claim{
		claim("C1", "P1", date(2023, 4, 1), 3000),
		claim("C2", "P1", date(2023, 10, 1), 3500),
	}

	rows, err := builder.LossRatio(context.Background(), policies, claims)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 2023, rows[0].Year)
	assert.InDelta(t, 10000, rows[0].EarnedPremium, 1e-9)
	assert.InDelta(t, 6500, rows[0].IncurredLosses, 1e-9)
	assert.InDelta(t, 0.65, rows[0].LossRatio, 1e-9)
}
