package metrics

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"policysim/pkg/contracts/domain"
)

// MinYearsForTrendFit is the minimum number of yearly observations needed
// to fit a severity trend.
const MinYearsForTrendFit = 2

// Severity builds the occurrence-year severity report and fits a log-linear
// annual severity trend over the yearly average severities.
func (b *Builder) Severity(ctx context.Context, claims []domain.Claim) ([]domain.SeverityRow, domain.SeverityTrendFit, error) {
	start := time.Now()

	if len(claims) == 0 {
		return nil, domain.SeverityTrendFit{}, fmt.Errorf("no claims provided")
	}

	type yearAgg struct {
		count int
		total float64
	}
	byYear := make(map[int]*yearAgg)

	skipped := 0
	for _, c := range claims {
		if !c.IsValid() {
			skipped++
			continue
		}
		year := c.OccurrenceYear()
		a, ok := byYear[year]
		if !ok {
			a = &yearAgg{}
			byYear[year] = a
		}
		a.count++
		a.total += c.Severity
	}

	if skipped > 0 {
		b.logger.WarnContext(ctx, "skipped invalid claims", "skipped", skipped)
	}
	if len(byYear) == 0 {
		return nil, domain.SeverityTrendFit{}, fmt.Errorf("no valid claims in dataset")
	}

	rows := make([]domain.SeverityRow, 0, len(byYear))
	for _, year := range sortedYears(byYear) {
		a := byYear[year]
		rows = append(rows, domain.SeverityRow{
			Year:          year,
			ClaimCount:    a.count,
			TotalSeverity: a.total,
			AvgSeverity:   a.total / float64(a.count),
		})
	}

	fit, err := b.fitSeverityTrend(ctx, rows)
	if err != nil {
		// A report with too few years is still useful without a fit.
		b.logger.WarnContext(ctx, "severity trend fit unavailable", "error", err)
	}

	b.logger.InfoContext(ctx, "severity report built",
		"claims", len(claims),
		"years", len(rows),
		"annual_trend", fit.AnnualTrend,
		"duration", time.Since(start),
	)

	return rows, fit, nil
}

// fitSeverityTrend fits ln(avg severity) against year offset by ordinary
// least squares. The implied annual trend rate is exp(slope)-1.
func (b *Builder) fitSeverityTrend(ctx context.Context, rows []domain.SeverityRow) (domain.SeverityTrendFit, error) {
	var xs, ys []float64
	baseYear := 0
	for _, row := range rows {
		if row.AvgSeverity <= 0 {
			continue
		}
		if baseYear == 0 {
			baseYear = row.Year
		}
		xs = append(xs, float64(row.Year-baseYear))
		ys = append(ys, math.Log(row.AvgSeverity))
	}

	if len(xs) < MinYearsForTrendFit {
		return domain.SeverityTrendFit{}, fmt.Errorf(
			"need at least %d years with positive severity, got %d", MinYearsForTrendFit, len(xs))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	rsq := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(rsq) {
		rsq = 1 // perfectly collinear two-point fits
	}

	return domain.SeverityTrendFit{
		AnnualTrend: math.Exp(slope) - 1,
		Intercept:   intercept,
		BaseYear:    baseYear,
		RSquared:    rsq,
		Years:       len(xs),
	}, nil
}
