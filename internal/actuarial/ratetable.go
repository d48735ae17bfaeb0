package actuarial

import (
	"fmt"
	"time"

	"policysim/pkg/contracts/domain"
)

// RateTable is an ordered set of filed rate changes. Changes must be listed
// in chronological order and apply multiplicatively to every policy whose
// inception date falls on or after a change's effective date.
type RateTable struct {
	Changes []domain.RateChange `json:"changes"`
}

// NewRateTable constructs a validated rate table.
func NewRateTable(changes []domain.RateChange) (RateTable, error) {
	rt := RateTable{Changes: changes}
	if err := rt.Validate(); err != nil {
		return RateTable{}, err
	}
	return rt, nil
}

// Validate checks chronological ordering and that no change wipes out
// premium entirely.
func (rt RateTable) Validate() error {
	for i, rc := range rt.Changes {
		if !rc.IsValid() {
			return fmt.Errorf("rate change %d invalid: effective=%v pct=%.4f",
				i, rc.EffectiveDate, rc.Pct)
		}
		if i > 0 && rc.EffectiveDate.Before(rt.Changes[i-1].EffectiveDate) {
			return fmt.Errorf("rate change %d effective %s precedes change %d effective %s",
				i, rc.EffectiveDate.Format("2006-01-02"),
				i-1, rt.Changes[i-1].EffectiveDate.Format("2006-01-02"))
		}
	}
	return nil
}

// FactorAt returns the cumulative rate factor applicable to a policy
// incepting on the given date: the product of (1+pct) over every change
// whose effective date is on or before the inception date, applied in
// chronological order.
func (rt RateTable) FactorAt(inception time.Time) float64 {
	d := DateOnly(inception)
	factor := 1.0
	for _, rc := range rt.Changes {
		if DateOnly(rc.EffectiveDate).After(d) {
			break
		}
		factor *= rc.Factor()
	}
	return factor
}

// ApplyTo returns the premium after cumulative rate changes as of the
// inception date.
func (rt RateTable) ApplyTo(premium float64, inception time.Time) float64 {
	return premium * rt.FactorAt(inception)
}
