package simulation

import (
	"fmt"
	"time"

	"policysim/internal/actuarial"
	"policysim/pkg/contracts/domain"
)

// Default generation parameters
const (
	DefaultTermMonths    = 12
	DefaultSeverityShape = 1.0
	MaxPolicyCount       = 1_000_000
)

// PortfolioSpec describes a synthetic portfolio to generate
type PortfolioSpec struct {
	PolicyCount  int                 `json:"policy_count" validate:"required,min=1"`
	StartYear    int                 `json:"start_year" validate:"required,min=1900,max=2200"`
	Years        int                 `json:"years" validate:"min=1"`
	TermMonths   int                 `json:"term_months" validate:"min=1,max=120"`
	BasePremium  float64             `json:"base_premium" validate:"required,gt=0"`
	PremiumTrend float64             `json:"premium_trend" validate:"gt=-1"`
	RateChanges  []domain.RateChange `json:"rate_changes,omitempty"`
}

// Validate checks the spec for structural problems before generation.
func (s PortfolioSpec) Validate() error {
	if s.PolicyCount <= 0 {
		return fmt.Errorf("policy count must be positive, got %d", s.PolicyCount)
	}
	if s.PolicyCount > MaxPolicyCount {
		return fmt.Errorf("policy count %d exceeds maximum %d", s.PolicyCount, MaxPolicyCount)
	}
	if s.Years <= 0 {
		return fmt.Errorf("years must be positive, got %d", s.Years)
	}
	if s.TermMonths <= 0 {
		return fmt.Errorf("term months must be positive, got %d", s.TermMonths)
	}
	if s.BasePremium <= 0 {
		return fmt.Errorf("base premium must be positive, got %.2f", s.BasePremium)
	}
	if _, err := actuarial.NewTrend(s.PremiumTrend); err != nil {
		return fmt.Errorf("premium trend: %w", err)
	}
	if _, err := actuarial.NewRateTable(s.RateChanges); err != nil {
		return fmt.Errorf("rate changes: %w", err)
	}
	return nil
}

// BaseDate returns the date premiums and severities are indexed to:
// January 1 of the start year.
func (s PortfolioSpec) BaseDate() time.Time {
	return time.Date(s.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// ClaimSpec describes the loss process layered onto a portfolio
type ClaimSpec struct {
	Frequency     float64 `json:"frequency" validate:"required,gt=0"`       // expected claims per earned policy-year
	BaseSeverity  float64 `json:"base_severity" validate:"required,gt=0"`   // median ground-up severity at the base date
	SeverityTrend float64 `json:"severity_trend" validate:"gt=-1"`          // annual severity trend rate
	SeverityShape float64 `json:"severity_shape" validate:"gte=0"`          // lognormal sigma
	ReportLagDays float64 `json:"report_lag_days,omitempty" validate:"gte=0"` // mean exponential reporting lag
	Seed          int64   `json:"seed"`
}

// Validate checks the claim spec for structural problems.
func (s ClaimSpec) Validate() error {
	if s.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive, got %.4f", s.Frequency)
	}
	if s.BaseSeverity <= 0 {
		return fmt.Errorf("base severity must be positive, got %.2f", s.BaseSeverity)
	}
	if s.SeverityShape < 0 {
		return fmt.Errorf("severity shape must be non-negative, got %.4f", s.SeverityShape)
	}
	if s.ReportLagDays < 0 {
		return fmt.Errorf("report lag must be non-negative, got %.2f", s.ReportLagDays)
	}
	if _, err := actuarial.NewTrend(s.SeverityTrend); err != nil {
		return fmt.Errorf("severity trend: %w", err)
	}
	return nil
}
