package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatExposure formats an exposure value, which needs more precision
// than monetary amounts since partial years can be small fractions
func formatExposure(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// formatRatio formats a ratio or rate value for CSV output
func formatRatio(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
