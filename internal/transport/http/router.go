package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"policysim/internal/config"
	apierrors "policysim/internal/errors"
	"policysim/internal/infrastructure"
	"policysim/internal/middleware"
)

// RouterDeps carries everything the router needs
type RouterDeps struct {
	Config     *config.Config
	Simulation SimulationServiceInterface
	Reports    ReportServiceInterface
	Health     HealthServiceInterface
	Telemetry  *infrastructure.Metrics
	Logger     *slog.Logger
}

// NewRouter assembles the full API router with the standard middleware
// stack and every handler mounted.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger, errorHandler))
	if deps.Telemetry != nil {
		r.Use(middleware.RequestMetrics(deps.Telemetry))
	}
	if deps.Config != nil && deps.Config.RateLimit.Enabled {
		r.Use(middleware.RateLimit(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst))
	}

	r.Get("/healthz", NewHealthHandler(deps.Health, logger).Healthz)
	if deps.Telemetry != nil {
		r.Method(http.MethodGet, "/metrics", deps.Telemetry.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/simulation", NewSimulationHandler(deps.Simulation, logger, errorHandler).Routes())
		r.Mount("/operations", NewOperationsHandler(deps.Simulation, logger, errorHandler).Routes())
		r.Mount("/reports", NewReportsHandler(deps.Reports, logger, errorHandler).Routes())
	})

	return r
}
