package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPathsFrom tests the filesystem layout rooted at a directory
func TestPathsFrom(t *testing.T) {
	root := t.TempDir()
	paths := PathsFrom(root)

	assert.Equal(t, root, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(root, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(root, "data", "datasets"), paths.DatasetsDir)
	assert.Equal(t, filepath.Join(root, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(root, "logs"), paths.LogsDir)

	assert.Equal(t, filepath.Join(root, "data", "datasets", "policies.csv"), paths.PoliciesCSV)
	assert.Equal(t, filepath.Join(root, "data", "datasets", "claims.csv"), paths.ClaimsCSV)
	assert.Equal(t, filepath.Join(root, "data", "reports", "actuarial_summary.xlsx"), paths.SummaryWorkbook)
}

// TestEnsureDirs tests directory creation
func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	paths := PathsFrom(root)

	require.NoError(t, paths.EnsureDirs())
	for _, dir := range []string{paths.DataDir, paths.DatasetsDir, paths.ReportsDir, paths.LogsDir} {
		assert.DirExists(t, dir)
	}

	// Idempotent on existing directories.
	require.NoError(t, paths.EnsureDirs())
}
