package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"policysim/internal/actuarial"
	"policysim/pkg/contracts/domain"
)

// PortfolioGenerator produces synthetic policy portfolios from a spec
type PortfolioGenerator struct {
	logger *slog.Logger
}

// NewPortfolioGenerator creates a portfolio generator.
func NewPortfolioGenerator(logger *slog.Logger) *PortfolioGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioGenerator{logger: logger}
}

// Generate produces the portfolio described by the spec. Inception dates
// are uniformly spaced within each written year, terms run TermMonths with
// an inclusive expiration day, and written premium is the base premium
// trended from the base date to inception and adjusted by every rate
// change effective on or before inception.
func (g *PortfolioGenerator) Generate(ctx context.Context, spec PortfolioSpec) ([]domain.Policy, error) {
	start := time.Now()

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("validate portfolio spec: %w", err)
	}

	trend, err := actuarial.NewTrend(spec.PremiumTrend)
	if err != nil {
		return nil, fmt.Errorf("premium trend: %w", err)
	}
	rateTable, err := actuarial.NewRateTable(spec.RateChanges)
	if err != nil {
		return nil, fmt.Errorf("rate table: %w", err)
	}

	g.logger.InfoContext(ctx, "generating portfolio",
		"policy_count", spec.PolicyCount,
		"start_year", spec.StartYear,
		"years", spec.Years,
		"term_months", spec.TermMonths,
	)

	baseDate := spec.BaseDate()
	policies := make([]domain.Policy, 0, spec.PolicyCount)

	for yearIdx := 0; yearIdx < spec.Years; yearIdx++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("portfolio generation cancelled: %w", ctx.Err())
		default:
		}

		year := spec.StartYear + yearIdx
		count := policiesForYear(spec.PolicyCount, spec.Years, yearIdx)
		yearDays := actuarial.CalendarYear(year).Days()

		for i := 0; i < count; i++ {
			// Uniformly spaced inception days across the written year.
			offset := i * yearDays / count
			inception := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
			expiration := inception.AddDate(0, spec.TermMonths, -1)

			premium := spec.BasePremium
			premium = trend.Apply(premium, baseDate, inception)
			premium = rateTable.ApplyTo(premium, inception)

			number := fmt.Sprintf("POL-%d-%05d", year, i+1)
			policies = append(policies, domain.Policy{
				ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte("policy:"+number)).String(),
				PolicyNumber:   number,
				InceptionDate:  inception,
				ExpirationDate: expiration,
				WrittenPremium: premium,
				Status:         domain.PolicyStatusInForce,
				CreatedAt:      inception,
			})
		}
	}

	g.logger.InfoContext(ctx, "portfolio generated",
		"policies", len(policies),
		"duration", time.Since(start),
	)

	return policies, nil
}

// policiesForYear splits the total count across written years, assigning
// the remainder to the earliest years so the counts always sum to total.
func policiesForYear(total, years, yearIdx int) int {
	count := total / years
	if yearIdx < total%years {
		count++
	}
	return count
}
