package domain

import (
	"time"
)

// Policy represents a single in-force or expired insurance policy record
type Policy struct {
	ID             string       `json:"id" validate:"required,uuid"`
	PolicyNumber   string       `json:"policy_number" validate:"required"`
	InceptionDate  time.Time    `json:"inception_date"`
	ExpirationDate time.Time    `json:"expiration_date"` // inclusive last covered day
	WrittenPremium float64      `json:"written_premium" validate:"min=0"`
	Status         PolicyStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
}

// PolicyStatus represents the lifecycle status of a policy
type PolicyStatus string

const (
	PolicyStatusInForce   PolicyStatus = "in_force"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

// IsValid checks basic structural validity of a policy record
func (p Policy) IsValid() bool {
	return p.PolicyNumber != "" &&
		!p.InceptionDate.IsZero() && !p.ExpirationDate.IsZero() &&
		!p.ExpirationDate.Before(p.InceptionDate) &&
		p.WrittenPremium >= 0
}

// TermDays returns the policy term length in days, counting both the
// inception day and the inclusive expiration day.
func (p Policy) TermDays() int {
	return int(p.ExpirationDate.Sub(p.InceptionDate).Hours()/24) + 1
}

// InForceOn reports whether the policy provides coverage on the given date.
func (p Policy) InForceOn(date time.Time) bool {
	return !date.Before(p.InceptionDate) && !date.After(p.ExpirationDate)
}
