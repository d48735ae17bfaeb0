// Package services contains the business logic layer between the HTTP
// transport and the domain packages.
//
// SimulationService owns the operation pipeline and ad-hoc portfolio
// generation. ReportService builds and serves the actuarial report
// tables and their exported artifacts. HealthService reports process
// and dependency health.
//
// Services accept a context on every call, log through slog, and
// return wrapped errors for the transport layer to map onto RFC 7807
// responses.
package services
