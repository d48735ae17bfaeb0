package metrics

import (
	"fmt"
	"log/slog"
	"sort"

	"policysim/internal/actuarial"
	"policysim/pkg/contracts/domain"
)

// Builder computes actuarial summary reports from in-memory datasets
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a report builder.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// policyPeriod returns the policy's coverage period.
func policyPeriod(p domain.Policy) (actuarial.Period, error) {
	period, err := actuarial.NewPeriod(p.InceptionDate, p.ExpirationDate)
	if err != nil {
		return actuarial.Period{}, fmt.Errorf("policy %s: %w", p.PolicyNumber, err)
	}
	return period, nil
}

// sortedYears returns the map's keys in ascending order.
func sortedYears[V any](byYear map[int]V) []int {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
