package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "PolicySim"
	AppVersion = "1.2.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir     = "data"
	DefaultLogsDir     = "logs"
	DefaultDatasetsDir = "data/datasets"
	DefaultReportsDir  = "data/reports"

	// Operation Timeouts
	DefaultOperationTimeout  = 10 * time.Minute
	DefaultSimulationTimeout = 5 * time.Minute
	DefaultReportTimeout     = 2 * time.Minute

	// Dataset file names
	PoliciesCSVName = "policies.csv"
	ClaimsCSVName   = "claims.csv"

	// Report file names
	EarnedPremiumCSVName = "earned_premium.csv"
	SeverityCSVName      = "severity.csv"
	FrequencyCSVName     = "frequency.csv"
	LossRatioCSVName     = "loss_ratio.csv"
	SummaryWorkbookName  = "actuarial_summary.xlsx"
)
