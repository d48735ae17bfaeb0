package actuarial

import (
	"fmt"
	"math"
	"time"
)

// Trend represents a constant annual trend rate applied over exact
// day-count intervals. A rate of 0.05 means values grow 5% per 365.25 days.
type Trend struct {
	AnnualRate float64 `json:"annual_rate"`
}

// NewTrend constructs a validated trend. Rates at or below -100% are
// rejected since they have no multiplicative meaning.
func NewTrend(annualRate float64) (Trend, error) {
	if annualRate <= -1 {
		return Trend{}, fmt.Errorf("annual trend rate must exceed -1, got %.4f", annualRate)
	}
	if math.IsNaN(annualRate) || math.IsInf(annualRate, 0) {
		return Trend{}, fmt.Errorf("annual trend rate is not finite")
	}
	return Trend{AnnualRate: annualRate}, nil
}

// Factor returns (1+rate)^(days(from,to)/365.25). The exponent is an exact
// day-count fraction, never a calendar-year truncation, and is negative
// when the target date precedes the base date, so trending backwards
// divides the value symmetrically.
func (t Trend) Factor(from, to time.Time) float64 {
	days := DaysBetween(from, to)
	if days == 0 {
		return 1
	}
	return math.Pow(1+t.AnnualRate, float64(days)/DaysPerYear)
}

// Apply trends a value from one date to another.
func (t Trend) Apply(value float64, from, to time.Time) float64 {
	return value * t.Factor(from, to)
}

// YearsBetween returns the signed fractional-year distance between two
// dates on the 365.25-day basis.
func YearsBetween(from, to time.Time) float64 {
	return float64(DaysBetween(from, to)) / DaysPerYear
}
