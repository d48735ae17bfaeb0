package domain

import (
	"time"
)

// Claim represents a single ground-up loss attached to a policy
type Claim struct {
	ID             string      `json:"id" validate:"required,uuid"`
	ClaimNumber    string      `json:"claim_number" validate:"required"`
	PolicyID       string      `json:"policy_id" validate:"required,uuid"`
	OccurrenceDate time.Time   `json:"occurrence_date"`
	ReportDate     time.Time   `json:"report_date"`
	Severity       float64     `json:"severity" validate:"min=0"` // ground-up loss amount
	Status         ClaimStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ClaimStatus represents the handling status of a claim
type ClaimStatus string

const (
	ClaimStatusOpen   ClaimStatus = "open"
	ClaimStatusClosed ClaimStatus = "closed"
)

// IsValid checks basic structural validity of a claim record
func (c Claim) IsValid() bool {
	return c.ClaimNumber != "" && c.PolicyID != "" &&
		!c.OccurrenceDate.IsZero() && c.Severity >= 0 &&
		(c.ReportDate.IsZero() || !c.ReportDate.Before(c.OccurrenceDate))
}

// OccurrenceYear returns the calendar year the loss occurred in.
func (c Claim) OccurrenceYear() int {
	return c.OccurrenceDate.Year()
}
