// Package actuarial implements the date-interval arithmetic that the rest of
// the system is built on: inclusive day-granular periods, earned exposure via
// interval overlap, multiplicative rate-change application, and exact
// day-count trend factors.
//
// All dates are treated at day granularity in UTC. A Period is inclusive on
// both ends, so the calendar year 2024 is the period 2024-01-01 through
// 2024-12-31 and spans 366 days. Leap years fall out of real day counts
// rather than a fixed 365-day assumption; fractional years use the 365.25
// day convention.
//
// Everything in this package is a pure function of its inputs. There is no
// global state, no clock access, and no randomness.
package actuarial
