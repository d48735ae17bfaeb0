// Package operations orchestrates multi-step analysis runs.
//
// An operation is an ordered pipeline of steps. The standard pipeline
// simulates a portfolio, builds the actuarial reports and exports the
// result files. Each step carries its own runtime state with progress
// tracking, and the manager handles sequencing, per-step timeouts,
// retries with backoff, and cancellation.
//
// Operations run in the background. Callers start a run, keep the
// returned ID, and poll the manager for a snapshot of the state.
package operations
