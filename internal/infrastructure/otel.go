package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"

	"policysim/internal/config"
)

// Service identity reported on every metric
const (
	ServiceName = "policysim"
	MeterName   = "policysim"
)

// Metrics holds the application's metric instruments
type Metrics struct {
	MeterProvider *sdkmetric.MeterProvider
	Meter         metric.Meter
	Handler       http.Handler // serves the Prometheus scrape endpoint

	SimulationRuns     metric.Int64Counter
	SimulationDuration metric.Float64Histogram
	PoliciesGenerated  metric.Int64Counter
	ClaimsGenerated    metric.Int64Counter
	ReportsBuilt       metric.Int64Counter
	ReportDuration     metric.Float64Histogram
	HTTPRequests       metric.Int64Counter
	HTTPDuration       metric.Float64Histogram
}

// InitializeMetrics wires the OTel meter provider to a Prometheus exporter
// and creates the application's instruments.
func InitializeMetrics(logger *slog.Logger) (*Metrics, error) {
	ctx := context.Background()

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(MeterName)
	m := &Metrics{
		MeterProvider: provider,
		Meter:         meter,
		Handler:       promhttp.Handler(),
	}

	if m.SimulationRuns, err = meter.Int64Counter("policysim_simulation_runs_total",
		metric.WithDescription("Number of simulation runs started")); err != nil {
		return nil, fmt.Errorf("create simulation run counter: %w", err)
	}
	if m.SimulationDuration, err = meter.Float64Histogram("policysim_simulation_duration_seconds",
		metric.WithDescription("Simulation run duration in seconds")); err != nil {
		return nil, fmt.Errorf("create simulation duration histogram: %w", err)
	}
	if m.PoliciesGenerated, err = meter.Int64Counter("policysim_policies_generated_total",
		metric.WithDescription("Number of synthetic policies generated")); err != nil {
		return nil, fmt.Errorf("create policy counter: %w", err)
	}
	if m.ClaimsGenerated, err = meter.Int64Counter("policysim_claims_generated_total",
		metric.WithDescription("Number of synthetic claims generated")); err != nil {
		return nil, fmt.Errorf("create claim counter: %w", err)
	}
	if m.ReportsBuilt, err = meter.Int64Counter("policysim_reports_built_total",
		metric.WithDescription("Number of report tables built")); err != nil {
		return nil, fmt.Errorf("create report counter: %w", err)
	}
	if m.ReportDuration, err = meter.Float64Histogram("policysim_report_duration_seconds",
		metric.WithDescription("Report build duration in seconds")); err != nil {
		return nil, fmt.Errorf("create report duration histogram: %w", err)
	}
	if m.HTTPRequests, err = meter.Int64Counter("policysim_http_requests_total",
		metric.WithDescription("HTTP requests served")); err != nil {
		return nil, fmt.Errorf("create http request counter: %w", err)
	}
	if m.HTTPDuration, err = meter.Float64Histogram("policysim_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds")); err != nil {
		return nil, fmt.Errorf("create http duration histogram: %w", err)
	}

	logger.InfoContext(ctx, "metrics initialized",
		"service", ServiceName,
		"exporter", "prometheus",
	)

	return m, nil
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.MeterProvider == nil {
		return nil
	}
	return m.MeterProvider.Shutdown(ctx)
}
