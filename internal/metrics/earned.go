package metrics

import (
	"context"
	"fmt"
	"time"

	"policysim/internal/actuarial"
	"policysim/pkg/contracts/domain"
)

// EarnedPremium builds the calendar-year earned premium report. For every
// policy the written premium is split across the years its term touches in
// proportion to earned exposure, so the yearly earned amounts for a policy
// always sum to its written premium.
func (b *Builder) EarnedPremium(ctx context.Context, policies []domain.Policy) ([]domain.EarnedPremiumRow, error) {
	start := time.Now()

	if len(policies) == 0 {
		return nil, fmt.Errorf("no policies provided")
	}

	type yearAgg struct {
		written  float64
		earned   float64
		writtenN int
		inForceN int
	}
	byYear := make(map[int]*yearAgg)
	agg := func(year int) *yearAgg {
		a, ok := byYear[year]
		if !ok {
			a = &yearAgg{}
			byYear[year] = a
		}
		return a
	}

	skipped := 0
	for _, p := range policies {
		if !p.IsValid() {
			skipped++
			continue
		}

		period, err := policyPeriod(p)
		if err != nil {
			return nil, err
		}

		writtenYear := p.InceptionDate.Year()
		wa := agg(writtenYear)
		wa.written += p.WrittenPremium
		wa.writtenN++

		fractions, err := actuarial.EarnedByCalendarYear(period)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", p.PolicyNumber, err)
		}
		for year, frac := range fractions {
			a := agg(year)
			a.earned += p.WrittenPremium * frac
			a.inForceN++
		}
	}

	if skipped > 0 {
		b.logger.WarnContext(ctx, "skipped invalid policies", "skipped", skipped)
	}
	if len(byYear) == 0 {
		return nil, fmt.Errorf("no valid policies in dataset")
	}

	rows := make([]domain.EarnedPremiumRow, 0, len(byYear))
	for _, year := range sortedYears(byYear) {
		a := byYear[year]
		rows = append(rows, domain.EarnedPremiumRow{
			Year:            year,
			WrittenPremium:  a.written,
			EarnedPremium:   a.earned,
			PoliciesWritten: a.writtenN,
			PoliciesInForce: a.inForceN,
		})
	}

	b.logger.InfoContext(ctx, "earned premium report built",
		"policies", len(policies),
		"years", len(rows),
		"duration", time.Since(start),
	)

	return rows, nil
}
