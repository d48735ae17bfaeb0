package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"policysim/internal/config"
	"policysim/internal/infrastructure"
	"policysim/internal/operations"
	"policysim/internal/services"
	"policysim/internal/simulation"
)

func main() {
	policyCount := flag.Int("policies", 1000, "number of policies to generate")
	startYear := flag.Int("start-year", 2020, "first inception year")
	years := flag.Int("years", 3, "number of inception years")
	termMonths := flag.Int("term-months", 12, "policy term in months")
	basePremium := flag.Float64("base-premium", 1200, "average written premium at the base date")
	premiumTrend := flag.Float64("premium-trend", 0.04, "annual premium trend rate")
	frequency := flag.Float64("frequency", 0.10, "expected claims per earned policy-year")
	baseSeverity := flag.Float64("base-severity", 5000, "median ground-up severity at the base date")
	severityTrend := flag.Float64("severity-trend", 0.05, "annual severity trend rate")
	severityShape := flag.Float64("severity-shape", 0.8, "lognormal sigma of the severity distribution")
	reportLag := flag.Float64("report-lag-days", 30, "mean reporting lag in days")
	seed := flag.Int64("seed", 0, "random seed for claim simulation (0 derives one from the clock)")
	step := flag.String("step", "", "restrict the run to one pipeline step: simulate | metrics | export")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirs(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "console",
				FilePath: paths.LogPath("simulator.log"),
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	logger.InfoContext(ctx, "Starting portfolio simulation",
		slog.Int("policies", *policyCount),
		slog.Int("start_year", *startYear),
		slog.Int("years", *years),
		slog.String("datasets_dir", paths.DatasetsDir),
		slog.String("reports_dir", paths.ReportsDir))

	service, err := services.NewSimulationService(paths, nil, logger)
	if err != nil {
		logger.Error("Failed to initialize simulation service", "error", err)
		os.Exit(1)
	}

	req := operations.OperationRequest{
		Portfolio: simulation.PortfolioSpec{
			PolicyCount:  *policyCount,
			StartYear:    *startYear,
			Years:        *years,
			TermMonths:   *termMonths,
			BasePremium:  *basePremium,
			PremiumTrend: *premiumTrend,
		},
		Claims: simulation.ClaimSpec{
			Frequency:     *frequency,
			BaseSeverity:  *baseSeverity,
			SeverityTrend: *severityTrend,
			SeverityShape: *severityShape,
			ReportLagDays: *reportLag,
			Seed:          *seed,
		},
		Step: *step,
	}

	resp, err := service.ExecuteOperation(ctx, req)
	if err != nil {
		logger.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	for id, state := range resp.Steps {
		logger.InfoContext(ctx, "Step finished",
			slog.String("step", id),
			slog.String("status", string(state.Status)),
			slog.Duration("duration", state.Duration()))
	}
	logger.InfoContext(ctx, "Simulation complete",
		slog.String("operation_id", resp.ID),
		slog.Duration("duration", resp.Duration),
		slog.String("policies_csv", paths.PoliciesCSV),
		slog.String("claims_csv", paths.ClaimsCSV),
		slog.String("summary_workbook", paths.SummaryWorkbook))
}
