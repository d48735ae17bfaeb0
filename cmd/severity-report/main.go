package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"policysim/internal/config"
	"policysim/internal/dataprocessing"
	"policysim/internal/exporter"
	"policysim/internal/infrastructure"
	"policysim/internal/metrics"
)

func main() {
	policiesPath := flag.String("policies", "", "policy dataset csv (defaults to data/datasets/policies.csv)")
	claimsPath := flag.String("claims", "", "claim dataset csv (defaults to data/datasets/claims.csv)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *policiesPath == "" {
		*policiesPath = paths.PoliciesCSV
	}
	if *claimsPath == "" {
		*claimsPath = paths.ClaimsCSV
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
				FilePath: paths.LogPath("severity-report.log"),
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
	logger.InfoContext(ctx, "Building loss reports",
		slog.String("policies", *policiesPath),
		slog.String("claims", *claimsPath),
		slog.String("reports_dir", paths.ReportsDir))

	policies, err := dataprocessing.LoadPolicies(*policiesPath, logger)
	if err != nil {
		logger.Error("Failed to load policies", "error", err)
		os.Exit(1)
	}
	claims, err := dataprocessing.LoadClaims(*claimsPath, logger)
	if err != nil {
		logger.Error("Failed to load claims", "error", err)
		os.Exit(1)
	}

	builder := metrics.NewBuilder(logger)
	severity, fit, err := builder.Severity(ctx, claims)
	if err != nil {
		logger.Error("Failed to build severity report", "error", err)
		os.Exit(1)
	}
	frequency, err := builder.Frequency(ctx, policies, claims)
	if err != nil {
		logger.Error("Failed to build frequency report", "error", err)
		os.Exit(1)
	}
	lossRatio, err := builder.LossRatio(ctx, policies, claims)
	if err != nil {
		logger.Error("Failed to build loss ratio report", "error", err)
		os.Exit(1)
	}

	reportExporter := exporter.NewReportExporter(exporter.NewCSVWriter(paths), paths, logger)
	if err := reportExporter.ExportSeverity(ctx, severity); err != nil {
		logger.Error("Failed to write severity report", "error", err)
		os.Exit(1)
	}
	if err := reportExporter.ExportFrequency(ctx, frequency); err != nil {
		logger.Error("Failed to write frequency report", "error", err)
		os.Exit(1)
	}
	if err := reportExporter.ExportLossRatio(ctx, lossRatio); err != nil {
		logger.Error("Failed to write loss ratio report", "error", err)
		os.Exit(1)
	}

	if fit.Years > 0 {
		logger.InfoContext(ctx, "Fitted severity trend",
			slog.Float64("annual_trend", fit.AnnualTrend),
			slog.Float64("r_squared", fit.RSquared),
			slog.Int("base_year", fit.BaseYear),
			slog.Int("years", fit.Years))
	} else {
		logger.WarnContext(ctx, "Not enough occurrence years to fit a severity trend",
			slog.Int("severity_rows", len(severity)))
	}
	logger.InfoContext(ctx, "Loss reports written",
		slog.String("severity_csv", paths.SeverityCSV),
		slog.String("frequency_csv", paths.FrequencyCSV),
		slog.String("loss_ratio_csv", paths.LossRatioCSV))
}
