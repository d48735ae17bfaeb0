package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"policysim/internal/config"
	"policysim/internal/dataprocessing"
	"policysim/pkg/contracts/domain"
)

// DatasetExporter writes generated portfolios and claim files to the
// datasets directory in the canonical CSV schema.
type DatasetExporter struct {
	writer *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewDatasetExporter creates a new dataset exporter
func NewDatasetExporter(writer *CSVWriter, paths *config.Paths, logger *slog.Logger) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetExporter{
		writer: writer,
		paths:  paths,
		logger: logger,
	}
}

// ExportPolicies streams a policy book to the datasets directory.
// Portfolios can run to a million policies, so rows are written one at
// a time instead of materializing the full record set.
func (e *DatasetExporter) ExportPolicies(ctx context.Context, policies []domain.Policy) error {
	e.logger.InfoContext(ctx, "exporting policy dataset",
		"path", e.paths.PoliciesCSV,
		"policies", len(policies))

	stream, err := e.writer.CreateStreamWriter(e.paths.PoliciesCSV, dataprocessing.PolicyCSVHeader)
	if err != nil {
		return fmt.Errorf("create policy stream: %w", err)
	}

	for i := range policies {
		if err := ctx.Err(); err != nil {
			stream.Close()
			return fmt.Errorf("export policies: %w", err)
		}
		if err := stream.WriteRecord(dataprocessing.PolicyRecord(policies[i])); err != nil {
			stream.Close()
			return fmt.Errorf("write policy %s: %w", policies[i].PolicyNumber, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("close policy stream: %w", err)
	}
	return nil
}

// ExportClaims streams a claim file to the datasets directory.
func (e *DatasetExporter) ExportClaims(ctx context.Context, claims []domain.Claim) error {
	e.logger.InfoContext(ctx, "exporting claim dataset",
		"path", e.paths.ClaimsCSV,
		"claims", len(claims))

	stream, err := e.writer.CreateStreamWriter(e.paths.ClaimsCSV, dataprocessing.ClaimCSVHeader)
	if err != nil {
		return fmt.Errorf("create claim stream: %w", err)
	}

	for i := range claims {
		if err := ctx.Err(); err != nil {
			stream.Close()
			return fmt.Errorf("export claims: %w", err)
		}
		if err := stream.WriteRecord(dataprocessing.ClaimRecord(claims[i])); err != nil {
			stream.Close()
			return fmt.Errorf("write claim %s: %w", claims[i].ClaimNumber, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("close claim stream: %w", err)
	}
	return nil
}
