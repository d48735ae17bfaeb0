// Package metrics aggregates policy and claim datasets into actuarial
// summary tables: earned premium by calendar year, loss severity by
// occurrence year with a fitted annual trend, claim frequency, and loss
// ratios. Earned amounts come from exact day-count interval overlap, so a
// policy written mid-year earns part of its premium in the following year
// and the yearly slices always reconcile to written premium.
package metrics
