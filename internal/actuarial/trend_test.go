package actuarial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrendFactor tests exact day-count trend factors
func TestTrendFactor(t *testing.T) {
	trend, err := NewTrend(0.05)
	require.NoError(t, err)

	t.Run("same day is unit factor", func(t *testing.T) {
		assert.Equal(t, 1.0, trend.Factor(date(2024, 3, 1), date(2024, 3, 1)))
	})

	t.Run("365.25 days is exactly one annual step", func(t *testing.T) {
		// 1461 days = 4 * 365.25, so the factor is (1.05)^4 exactly
		from := date(2020, 1, 1)
		to := from.AddDate(0, 0, 1461)
		assert.InDelta(t, math.Pow(1.05, 4), trend.Factor(from, to), 1e-12)
	})

	t.Run("one calendar year is a fractional exponent, not a truncation", func(t *testing.T) {
		// 2023-01-01 to 2024-01-01 is 365 days: exponent 365/365.25, not 1
		got := trend.Factor(date(2023, 1, 1), date(2024, 1, 1))
		want := math.Pow(1.05, 365.0/365.25)
		assert.InDelta(t, want, got, 1e-12)
		assert.Less(t, got, 1.05)
	})

	t.Run("leap year exponent exceeds one", func(t *testing.T) {
		// 2024-01-01 to 2025-01-01 is 366 days
		got := trend.Factor(date(2024, 1, 1), date(2025, 1, 1))
		want := math.Pow(1.05, 366.0/365.25)
		assert.InDelta(t, want, got, 1e-12)
		assert.Greater(t, got, 1.05)
	})

	t.Run("trending backwards inverts the factor", func(t *testing.T) {
		from := date(2022, 5, 10)
		to := date(2024, 11, 3)
		forward := trend.Factor(from, to)
		backward := trend.Factor(to, from)
		assert.InDelta(t, 1.0, forward*backward, 1e-12)
	})
}

// TestTrendApply tests value trending in both directions
func TestTrendApply(t *testing.T) {
	trend, err := NewTrend(0.08)
	require.NoError(t, err)

	from := date(2021, 1, 1)
	to := from.AddDate(0, 0, 1461) // exactly 4 years on the 365.25 basis

	trended := trend.Apply(10000, from, to)
	assert.InDelta(t, 10000*math.Pow(1.08, 4), trended, 1e-6)

	detrended := trend.Apply(trended, to, from)
	assert.InDelta(t, 10000, detrended, 1e-6)
}

// TestNewTrend tests rate validation
func TestNewTrend(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		wantErr bool
	}{
		{"positive rate", 0.05, false},
		{"zero rate", 0, false},
		{"deflationary rate", -0.03, false},
		{"minus one hundred percent", -1, true},
		{"below minus one hundred percent", -1.5, true},
		{"nan", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTrend(tt.rate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestYearsBetween tests signed fractional-year distances
func TestYearsBetween(t *testing.T) {
	assert.InDelta(t, 4.0, YearsBetween(date(2020, 1, 1), date(2020, 1, 1).AddDate(0, 0, 1461)), 1e-12)
	assert.InDelta(t, -365.0/365.25, YearsBetween(date(2024, 1, 1), date(2023, 1, 1)), 1e-12)
	assert.Zero(t, YearsBetween(date(2024, 6, 1), date(2024, 6, 1)))
}
