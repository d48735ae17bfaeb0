package simulation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/pkg/contracts/domain"
)

func testPortfolioSpec() PortfolioSpec {
	return PortfolioSpec{
		PolicyCount:  100,
		StartYear:    2023,
		Years:        2,
		TermMonths:   12,
		BasePremium:  1200,
		PremiumTrend: 0.04,
	}
}

// TestPortfolioGeneratorGenerate tests structural properties of generated portfolios
func TestPortfolioGeneratorGenerate(t *testing.T) {
	gen := NewPortfolioGenerator(nil)
	spec := testPortfolioSpec()

	policies, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, policies, spec.PolicyCount)

	written := map[int]int{}
	for _, p := range policies {
		require.True(t, p.IsValid(), "policy %s must be valid", p.PolicyNumber)
		assert.NotEmpty(t, p.ID)
		written[p.InceptionDate.Year()]++

		// Annual term with inclusive expiration: inception + 12 months - 1 day.
		expectedExp := p.InceptionDate.AddDate(0, 12, -1)
		assert.Equal(t, expectedExp, p.ExpirationDate)
	}

	assert.Equal(t, 50, written[2023])
	assert.Equal(t, 50, written[2024])
}

// TestPortfolioInceptionSpacing tests uniform spacing of inception dates within a year
func TestPortfolioInceptionSpacing(t *testing.T) {
	gen := NewPortfolioGenerator(nil)
	spec := testPortfolioSpec()
	spec.PolicyCount = 12
	spec.Years = 1

	policies, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, policies, 12)

	// First policy incepts January 1; successive inceptions never regress
	// and stay within the written year.
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), policies[0].InceptionDate)
	for i := 1; i < len(policies); i++ {
		assert.False(t, policies[i].InceptionDate.Before(policies[i-1].InceptionDate))
		assert.Equal(t, 2023, policies[i].InceptionDate.Year())
	}

	// 12 policies over 365 days: roughly monthly spacing.
	gap := policies[1].InceptionDate.Sub(policies[0].InceptionDate).Hours() / 24
	assert.InDelta(t, 30, gap, 1.5)
}

// TestPortfolioPremiumTrendAndRateChanges tests written premium arithmetic
func TestPortfolioPremiumTrendAndRateChanges(t *testing.T) {
	gen := NewPortfolioGenerator(nil)

	t.Run("base policy carries base premium", func(t *testing.T) {
		spec := testPortfolioSpec()
		spec.PolicyCount = 1
		spec.Years = 1

		policies, err := gen.Generate(context.Background(), spec)
		require.NoError(t, err)
		require.Len(t, policies, 1)
		// Incepts on the base date, so no trend and no rate changes apply.
		assert.InDelta(t, spec.BasePremium, policies[0].WrittenPremium, 1e-9)
	})

	t.Run("trend compounds with exact day counts", func(t *testing.T) {
		spec := testPortfolioSpec()
		spec.PolicyCount = 2
		spec.Years = 2
		spec.PremiumTrend = 0.05

		policies, err := gen.Generate(context.Background(), spec)
		require.NoError(t, err)
		require.Len(t, policies, 2)

		// Second policy incepts 2024-01-01, 365 days after the base date.
		second := policies[1]
		require.Equal(t, 2024, second.InceptionDate.Year())
		want := spec.BasePremium * math.Pow(1.05, 365.0/365.25)
		assert.InDelta(t, want, second.WrittenPremium, 1e-9)
	})

	t.Run("rate change multiplies premium for later inceptions only", func(t *testing.T) {
		spec := testPortfolioSpec()
		spec.PolicyCount = 2
		spec.Years = 2
		spec.PremiumTrend = 0
		spec.RateChanges = []domain.RateChange{
			{EffectiveDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), Pct: 0.10},
		}

		policies, err := gen.Generate(context.Background(), spec)
		require.NoError(t, err)
		require.Len(t, policies, 2)

		assert.InDelta(t, spec.BasePremium, policies[0].WrittenPremium, 1e-9)
		assert.InDelta(t, spec.BasePremium*1.10, policies[1].WrittenPremium, 1e-9)
	})
}

// TestPortfolioDeterminism tests that identical specs produce identical portfolios
func TestPortfolioDeterminism(t *testing.T) {
	gen := NewPortfolioGenerator(nil)
	spec := testPortfolioSpec()

	first, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestPortfolioSpecValidate tests spec rejection paths
func TestPortfolioSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PortfolioSpec)
	}{
		{"zero policy count", func(s *PortfolioSpec) { s.PolicyCount = 0 }},
		{"excessive policy count", func(s *PortfolioSpec) { s.PolicyCount = MaxPolicyCount + 1 }},
		{"zero years", func(s *PortfolioSpec) { s.Years = 0 }},
		{"zero term", func(s *PortfolioSpec) { s.TermMonths = 0 }},
		{"zero base premium", func(s *PortfolioSpec) { s.BasePremium = 0 }},
		{"trend at -100%", func(s *PortfolioSpec) { s.PremiumTrend = -1 }},
		{"non-chronological rate changes", func(s *PortfolioSpec) {
			s.RateChanges = []domain.RateChange{
				{EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Pct: 0.05},
				{EffectiveDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Pct: 0.05},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testPortfolioSpec()
			tt.mutate(&spec)
			require.Error(t, spec.Validate())

			_, err := NewPortfolioGenerator(nil).Generate(context.Background(), spec)
			require.Error(t, err)
		})
	}
}
