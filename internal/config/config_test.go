package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigValidate tests configuration validation rules
func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{
				Port:        8080,
				ReadTimeout: 15 * time.Second,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Simulation: SimulationConfig{
				MaxPolicyCount: 1000000,
				Workers:        4,
			},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"zero max policies", func(c *Config) { c.Simulation.MaxPolicyCount = 0 }, "max policy count"},
		{"zero workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers"},
		{"zero rps with limiter on", func(c *Config) { c.RateLimit.RPS = 0 }, "rps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

// TestMergeConfigs tests env-over-file precedence
func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{
		Server:     ServerConfig{Port: 9090, ReadTimeout: 5 * time.Second},
		Logging:    LoggingConfig{Level: "debug"},
		Simulation: SimulationConfig{MaxPolicyCount: 500},
	}

	t.Run("file fills unset env values", func(t *testing.T) {
		merged := mergeConfigs(fileCfg, Config{})
		assert.Equal(t, 9090, merged.Server.Port)
		assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
		assert.Equal(t, "debug", merged.Logging.Level)
		assert.Equal(t, 500, merged.Simulation.MaxPolicyCount)
	})

	t.Run("env wins when set", func(t *testing.T) {
		envCfg := Config{
			Server:     ServerConfig{Port: 8081},
			Logging:    LoggingConfig{Level: "warn"},
			Simulation: SimulationConfig{MaxPolicyCount: 2000},
		}
		merged := mergeConfigs(fileCfg, envCfg)
		assert.Equal(t, 8081, merged.Server.Port)
		assert.Equal(t, "warn", merged.Logging.Level)
		assert.Equal(t, 2000, merged.Simulation.MaxPolicyCount)
	})
}
