package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/internal/operations"
)

// seedDatasets runs the pipeline once so datasets and reports exist
func seedDatasets(t *testing.T, svc *SimulationService) {
	t.Helper()
	portfolio, claims := testSpecs()
	_, err := svc.ExecuteOperation(context.Background(), operations.OperationRequest{
		Portfolio: portfolio,
		Claims:    claims,
	})
	require.NoError(t, err)
}

// TestBuildFromStoredDatasets tests report building from disk
func TestBuildFromStoredDatasets(t *testing.T) {
	paths := testPaths(t)
	sim, err := NewSimulationService(paths, nil, nil)
	require.NoError(t, err)
	seedDatasets(t, sim)

	svc := NewReportService(paths, nil, nil)
	reports, err := svc.BuildFromStoredDatasets(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, reports.EarnedPremium)
	assert.NotEmpty(t, reports.Frequency)
	assert.NotEmpty(t, reports.LossRatio)
	// Two written years produce at least two severity years
	assert.GreaterOrEqual(t, len(reports.Severity), 2)
}

// TestLoadDatasetsMissing tests the error when no simulation has run
func TestLoadDatasetsMissing(t *testing.T) {
	svc := NewReportService(testPaths(t), nil, nil)

	_, _, err := svc.LoadDatasets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load policies")
}

// TestListArtifacts tests artifact discovery and ordering
func TestListArtifacts(t *testing.T) {
	paths := testPaths(t)
	sim, err := NewSimulationService(paths, nil, nil)
	require.NoError(t, err)
	seedDatasets(t, sim)

	svc := NewReportService(paths, nil, nil)
	artifacts, err := svc.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 5)

	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
	}
	assert.Contains(t, names, "earned_premium.csv")
	assert.Contains(t, names, "actuarial_summary.xlsx")
	assert.IsIncreasing(t, names)
}

// TestArtifactPath tests name resolution and traversal rejection
func TestArtifactPath(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(filepath.Join(paths.ReportsDir, "severity.csv"), []byte("x"), 0o644))

	svc := NewReportService(paths, nil, nil)

	path, err := svc.ArtifactPath("severity.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "severity.csv"), path)

	for _, bad := range []string{"", "../severity.csv", "sub/severity.csv", ".hidden.csv", "notes.txt", "missing.csv"} {
		_, err := svc.ArtifactPath(bad)
		assert.Error(t, err, bad)
	}
}
