package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"policysim/internal/config"
	"policysim/internal/dataprocessing"
	"policysim/internal/infrastructure"
	"policysim/internal/metrics"
	"policysim/internal/operations"
	"policysim/pkg/contracts/domain"
)

// ReportService builds report tables from the stored datasets and
// serves the exported artifacts.
type ReportService struct {
	paths     *config.Paths
	builder   *metrics.Builder
	telemetry *infrastructure.Metrics
	logger    *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(paths *config.Paths, telemetry *infrastructure.Metrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		paths:     paths,
		builder:   metrics.NewBuilder(logger),
		telemetry: telemetry,
		logger:    logger,
	}
}

// LoadDatasets reads the stored policy and claim CSVs
func (s *ReportService) LoadDatasets(ctx context.Context) ([]domain.Policy, []domain.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	policies, err := dataprocessing.LoadPolicies(s.paths.PoliciesCSV, s.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load policies: %w", err)
	}
	claims, err := dataprocessing.LoadClaims(s.paths.ClaimsCSV, s.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load claims: %w", err)
	}

	s.logger.DebugContext(ctx, "datasets loaded",
		"policies", len(policies),
		"claims", len(claims))
	return policies, claims, nil
}

// BuildReports computes every report table from the datasets. The four
// tables are independent, so they are built concurrently.
func (s *ReportService) BuildReports(ctx context.Context, policies []domain.Policy, claims []domain.Claim) (*operations.ReportSet, error) {
	start := time.Now()
	reports := &operations.ReportSet{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.builder.EarnedPremium(gctx, policies)
		if err != nil {
			return fmt.Errorf("earned premium: %w", err)
		}
		reports.EarnedPremium = rows
		return nil
	})
	g.Go(func() error {
		rows, fit, err := s.builder.Severity(gctx, claims)
		if err != nil {
			return fmt.Errorf("severity: %w", err)
		}
		reports.Severity = rows
		if fit.Years > 0 {
			reports.TrendFit = &fit
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.builder.Frequency(gctx, policies, claims)
		if err != nil {
			return fmt.Errorf("frequency: %w", err)
		}
		reports.Frequency = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.builder.LossRatio(gctx, policies, claims)
		if err != nil {
			return fmt.Errorf("loss ratio: %w", err)
		}
		reports.LossRatio = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.telemetry != nil {
		s.telemetry.ReportsBuilt.Add(ctx, 4)
		s.telemetry.ReportDuration.Record(ctx, time.Since(start).Seconds())
	}
	return reports, nil
}

// BuildFromStoredDatasets loads the datasets and computes the reports
func (s *ReportService) BuildFromStoredDatasets(ctx context.Context) (*operations.ReportSet, error) {
	policies, claims, err := s.LoadDatasets(ctx)
	if err != nil {
		return nil, err
	}
	return s.BuildReports(ctx, policies, claims)
}

// ListArtifacts scans the reports directory for exported files
func (s *ReportService) ListArtifacts(ctx context.Context) ([]domain.ReportArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.paths.ReportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ReportArtifact{}, nil
		}
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	artifacts := make([]domain.ReportArtifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		typ := artifactType(entry.Name())
		if typ == "" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, domain.ReportArtifact{
			Name:        entry.Name(),
			Type:        typ,
			Path:        filepath.Join(s.paths.ReportsDir, entry.Name()),
			SizeBytes:   info.Size(),
			GeneratedAt: info.ModTime(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})
	return artifacts, nil
}

// ArtifactPath resolves an artifact name to its path on disk. Names
// with path separators are rejected to keep downloads inside the
// reports directory.
func (s *ReportService) ArtifactPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	if artifactType(name) == "" {
		return "", fmt.Errorf("unsupported artifact type for %q", name)
	}

	path := filepath.Join(s.paths.ReportsDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact %q: %w", name, err)
	}
	return path, nil
}

func artifactType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".xlsx":
		return "excel"
	default:
		return ""
	}
}
