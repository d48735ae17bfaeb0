package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all application file locations.
// This is the single source of truth for filesystem layout.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DatasetsDir   string
	ReportsDir    string
	LogsDir       string

	// Well-known dataset files
	PoliciesCSV string
	ClaimsCSV   string

	// Well-known report artifacts
	EarnedPremiumCSV string
	SeverityCSV      string
	FrequencyCSV     string
	LossRatioCSV     string
	SummaryWorkbook  string
}

// GetPaths returns the application paths relative to the executable
// location, never the current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve executable symlinks: %w", err)
	}
	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the filesystem layout rooted at the given directory.
// Layout:
//
//	<root>/
//	  ├── config.yaml            (optional)
//	  ├── data/
//	  │   ├── datasets/          (generated policy and claim CSVs)
//	  │   └── reports/           (report CSVs and Excel workbooks)
//	  └── logs/
func PathsFrom(rootDir string) *Paths {
	dataDir := filepath.Join(rootDir, DefaultDataDir)
	datasetsDir := filepath.Join(dataDir, "datasets")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir: rootDir,
		DataDir:       dataDir,
		DatasetsDir:   datasetsDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(rootDir, DefaultLogsDir),

		PoliciesCSV: filepath.Join(datasetsDir, PoliciesCSVName),
		ClaimsCSV:   filepath.Join(datasetsDir, ClaimsCSVName),

		EarnedPremiumCSV: filepath.Join(reportsDir, EarnedPremiumCSVName),
		SeverityCSV:      filepath.Join(reportsDir, SeverityCSVName),
		FrequencyCSV:     filepath.Join(reportsDir, FrequencyCSVName),
		LossRatioCSV:     filepath.Join(reportsDir, LossRatioCSVName),
		SummaryWorkbook:  filepath.Join(reportsDir, SummaryWorkbookName),
	}
}

// LogPath returns the full path for a log file name inside the logs
// directory.
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// EnsureDirs creates every directory the application writes to.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.DatasetsDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
