package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"policysim/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth represents an individual dependency check
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check reports process health together with data directory checks
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(s.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
		},
		Checks: map[string]ServiceHealth{
			"datasets_dir": s.checkDir(s.paths.DatasetsDir),
			"reports_dir":  s.checkDir(s.paths.ReportsDir),
		},
	}

	for _, check := range status.Checks {
		if check.Status != "healthy" {
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "health check degraded",
				"checks", status.Checks)
			break
		}
	}
	return status
}

func (s *HealthService) checkDir(dir string) ServiceHealth {
	info, err := os.Stat(dir)
	if err != nil {
		return ServiceHealth{Status: "unhealthy", Message: err.Error()}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: "unhealthy", Message: dir + " is not a directory"}
	}
	return ServiceHealth{Status: "healthy"}
}
