package domain

import (
	"time"
)

// RateChange represents a single filed rate change, applied to all policies
// incepting on or after its effective date.
type RateChange struct {
	EffectiveDate time.Time `json:"effective_date"`
	Pct           float64   `json:"pct"` // e.g. 0.05 for +5%, -0.02 for -2%
}

// Factor returns the multiplicative premium factor implied by the change.
func (rc RateChange) Factor() float64 {
	return 1 + rc.Pct
}

// IsValid checks that the change has a date and does not wipe out premium.
func (rc RateChange) IsValid() bool {
	return !rc.EffectiveDate.IsZero() && rc.Pct > -1
}
