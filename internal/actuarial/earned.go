package actuarial

import (
	"fmt"
	"time"
)

// EarnedExposure returns the fraction of the policy term earned within the
// reporting period: overlap days divided by term days, clipped to zero when
// the intervals do not intersect. The result is always in [0, 1]. Both
// periods are inclusive on both ends.
func EarnedExposure(policy, reporting Period) (float64, error) {
	if err := policy.Validate(); err != nil {
		return 0, fmt.Errorf("validate policy period: %w", err)
	}
	if err := reporting.Validate(); err != nil {
		return 0, fmt.Errorf("validate reporting period: %w", err)
	}

	overlap := policy.OverlapDays(reporting)
	if overlap <= 0 {
		return 0, nil
	}
	return float64(overlap) / float64(policy.Days()), nil
}

// EarnedFraction returns the fraction of the policy term elapsed as of the
// given date, treating the as-of date itself as earned. Zero before
// inception, one on or after the inclusive expiration day.
func EarnedFraction(policy Period, asOf time.Time) (float64, error) {
	if err := policy.Validate(); err != nil {
		return 0, fmt.Errorf("validate policy period: %w", err)
	}
	d := DateOnly(asOf)
	if d.Before(policy.Start) {
		return 0, nil
	}
	if !d.Before(policy.End) {
		return 1, nil
	}
	return EarnedExposure(policy, Period{Start: policy.Start, End: d})
}

// EarnedByCalendarYear splits a policy term's exposure across the calendar
// years it touches. The returned fractions are keyed by year and always sum
// to 1 for a valid term.
func EarnedByCalendarYear(policy Period) (map[int]float64, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("validate policy period: %w", err)
	}

	out := make(map[int]float64)
	for year := policy.Start.Year(); year <= policy.End.Year(); year++ {
		frac, err := EarnedExposure(policy, CalendarYear(year))
		if err != nil {
			return nil, err
		}
		if frac > 0 {
			out[year] = frac
		}
	}
	return out, nil
}
