package metrics

import (
	"context"
	"fmt"
	"time"

	"policysim/pkg/contracts/domain"
)

// LossRatio builds the calendar-year loss ratio report: incurred losses by
// occurrence year against premium earned in the same year.
func (b *Builder) LossRatio(ctx context.Context, policies []domain.Policy, claims []domain.Claim) ([]domain.LossRatioRow, error) {
	start := time.Now()

	earnedRows, err := b.EarnedPremium(ctx, policies)
	if err != nil {
		return nil, fmt.Errorf("earned premium: %w", err)
	}

	losses := make(map[int]float64)
	for _, c := range claims {
		if c.IsValid() {
			losses[c.OccurrenceYear()] += c.Severity
		}
	}

	rows := make([]domain.LossRatioRow, 0, len(earnedRows))
	for _, er := range earnedRows {
		row := domain.LossRatioRow{
			Year:           er.Year,
			EarnedPremium:  er.EarnedPremium,
			IncurredLosses: losses[er.Year],
		}
		if er.EarnedPremium > 0 {
			row.LossRatio = row.IncurredLosses / er.EarnedPremium
		}
		rows = append(rows, row)
	}

	b.logger.InfoContext(ctx, "loss ratio report built",
		"years", len(rows),
		"duration", time.Since(start),
	)

	return rows, nil
}
