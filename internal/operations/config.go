package operations

import (
	"time"
)

// Config holds operation execution settings
type Config struct {
	RetryConfig  RetryConfig              `json:"retry_config"`
	StepTimeouts map[string]time.Duration `json:"step_timeouts"`
}

// NewConfig returns the default operation configuration
func NewConfig() *Config {
	return &Config{
		RetryConfig: NewRetryConfig(),
		StepTimeouts: map[string]time.Duration{
			StepIDSimulate: DefaultSimulateTimeout,
			StepIDMetrics:  DefaultMetricsTimeout,
			StepIDExport:   DefaultExportTimeout,
		},
	}
}

// GetStepTimeout returns the timeout for a specific step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok {
		return timeout
	}
	return DefaultStepTimeout
}
