// Package simulation generates synthetic insurance datasets: a policy
// portfolio with trended, rate-adjusted premiums, and a matching set of
// claims with Poisson counts and lognormal severities.
//
// Generation is deterministic for a given spec and non-zero seed: the seed
// is threaded through an explicit PRNG and record IDs are derived from
// record numbers, so two runs with identical inputs produce byte-identical
// datasets. A zero seed is replaced with a clock-derived one.
package simulation
