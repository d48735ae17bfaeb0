package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"policysim/internal/config"
	"policysim/internal/dataprocessing"
	"policysim/internal/exporter"
	"policysim/internal/infrastructure"
	"policysim/internal/metrics"
	"policysim/pkg/contracts/domain"
)

func main() {
	in := flag.String("policies", "", "policy dataset path, CSV or Excel (defaults to data/datasets/policies.csv)")
	out := flag.String("out", "", "output csv path (defaults to data/reports/earned_premium.csv)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *in == "" {
		*in = paths.PoliciesCSV
	}
	if *out == "" {
		*out = paths.EarnedPremiumCSV
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
				FilePath: paths.LogPath("earned-report.log"),
			},
		}
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := context.Background()
	logger.InfoContext(ctx, "Building earned premium report",
		slog.String("input", *in),
		slog.String("output", *out))

	policies, err := loadPolicies(*in, logger)
	if err != nil {
		logger.Error("Failed to load policies", "error", err)
		os.Exit(1)
	}

	builder := metrics.NewBuilder(logger)
	rows, err := builder.EarnedPremium(ctx, policies)
	if err != nil {
		logger.Error("Failed to build earned premium report", "error", err)
		os.Exit(1)
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			fmt.Sprintf("%d", row.Year),
			fmt.Sprintf("%.2f", row.WrittenPremium),
			fmt.Sprintf("%.2f", row.EarnedPremium),
			fmt.Sprintf("%d", row.PoliciesWritten),
			fmt.Sprintf("%d", row.PoliciesInForce),
		})
	}
	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteSimpleCSV(*out, exporter.EarnedPremiumHeader, records); err != nil {
		logger.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Earned premium report written",
		slog.Int("policies", len(policies)),
		slog.Int("years", len(rows)),
		slog.String("output", *out))
}

// loadPolicies reads the policy dataset from either a CSV file or an
// Excel workbook, chosen by extension.
func loadPolicies(path string, logger *slog.Logger) ([]domain.Policy, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return dataprocessing.ParsePolicyWorkbook(path, logger)
	default:
		return dataprocessing.LoadPolicies(path, logger)
	}
}
