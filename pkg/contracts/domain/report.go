package domain

import (
	"time"
)

// EarnedPremiumRow is one calendar-year row of the earned premium report
type EarnedPremiumRow struct {
	Year            int     `json:"year"`
	WrittenPremium  float64 `json:"written_premium"` // premium written in the year
	EarnedPremium   float64 `json:"earned_premium"`  // premium earned during the year
	PoliciesWritten int     `json:"policies_written"`
	PoliciesInForce int     `json:"policies_in_force"` // in force at any point in the year
}

// SeverityRow is one occurrence-year row of the loss severity report
type SeverityRow struct {
	Year          int     `json:"year"`
	ClaimCount    int     `json:"claim_count"`
	TotalSeverity float64 `json:"total_severity"`
	AvgSeverity   float64 `json:"avg_severity"`
}

// SeverityTrendFit is the log-linear trend fitted over yearly average severities
type SeverityTrendFit struct {
	AnnualTrend float64 `json:"annual_trend"` // implied annual rate, exp(slope)-1
	Intercept   float64 `json:"intercept"`    // fitted log severity at the base year
	BaseYear    int     `json:"base_year"`
	RSquared    float64 `json:"r_squared"`
	Years       int     `json:"years"` // number of yearly observations fitted
}

// FrequencyRow is one policy-year row of the claim frequency report
type FrequencyRow struct {
	Year           int     `json:"year"`
	EarnedExposure float64 `json:"earned_exposure"` // in policy-years
	ClaimCount     int     `json:"claim_count"`
	Frequency      float64 `json:"frequency"` // claims per earned policy-year
}

// LossRatioRow is one calendar-year row of the loss ratio report
type LossRatioRow struct {
	Year           int     `json:"year"`
	EarnedPremium  float64 `json:"earned_premium"`
	IncurredLosses float64 `json:"incurred_losses"`
	LossRatio      float64 `json:"loss_ratio"`
}

// ReportArtifact describes a generated report file available for download
type ReportArtifact struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"` // "csv" or "excel"
	Path        string    `json:"path"`
	SizeBytes   int64     `json:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at"`
}
