package metrics

import (
	"context"
	"fmt"
	"time"

	"policysim/internal/actuarial"
	"policysim/pkg/contracts/domain"
)

// Frequency builds the calendar-year claim frequency report: claims per
// earned policy-year of exposure. Exposure is each policy's term fraction
// earned within the year, scaled by the term length in years.
func (b *Builder) Frequency(ctx context.Context, policies []domain.Policy, claims []domain.Claim) ([]domain.FrequencyRow, error) {
	start := time.Now()

	if len(policies) == 0 {
		return nil, fmt.Errorf("no policies provided")
	}

	exposure := make(map[int]float64)
	for _, p := range policies {
		if !p.IsValid() {
			continue
		}
		period, err := policyPeriod(p)
		if err != nil {
			return nil, err
		}
		fractions, err := actuarial.EarnedByCalendarYear(period)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", p.PolicyNumber, err)
		}
		termYears := period.Years()
		for year, frac := range fractions {
			exposure[year] += frac * termYears
		}
	}
	if len(exposure) == 0 {
		return nil, fmt.Errorf("no valid policies in dataset")
	}

	counts := make(map[int]int)
	for _, c := range claims {
		if c.IsValid() {
			counts[c.OccurrenceYear()]++
		}
	}

	rows := make([]domain.FrequencyRow, 0, len(exposure))
	for _, year := range sortedYears(exposure) {
		exp := exposure[year]
		row := domain.FrequencyRow{
			Year:           year,
			EarnedExposure: exp,
			ClaimCount:     counts[year],
		}
		if exp > 0 {
			row.Frequency = float64(counts[year]) / exp
		}
		rows = append(rows, row)
	}

	b.logger.InfoContext(ctx, "frequency report built",
		"policies", len(policies),
		"claims", len(claims),
		"years", len(rows),
		"duration", time.Since(start),
	)

	return rows, nil
}
