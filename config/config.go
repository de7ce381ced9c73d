// Package config loads the settlement processor's runtime tuning
// parameters from YAML, following the teacher pack's config-struct
// + ApplyDefaults convention. It intentionally does not attempt
// generalized multi-source config composition (env overlays, flag
// merging, hot reload) -- just the batch/retry/store knobs this
// pipeline needs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eviepay/vss-settlement/metrics"
	"github.com/eviepay/vss-settlement/store/postgres"
)

// PipelineConfig controls batching and retry behavior for the job
// orchestrator.
type PipelineConfig struct {
	BatchSize      int           `yaml:"batch_size"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryStep      time.Duration `yaml:"retry_step"`
	CircuitMaxFail int           `yaml:"circuit_max_failures"`
	CircuitReset   time.Duration `yaml:"circuit_reset_timeout"`
}

// ApplyDefaults fills in the batch-size, retry-count/step and
// circuit-breaker defaults from the processing model.
func (c *PipelineConfig) ApplyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = 500
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryStep == 0 {
		c.RetryStep = time.Second
	}
	if c.CircuitMaxFail == 0 {
		c.CircuitMaxFail = 5
	}
	if c.CircuitReset == 0 {
		c.CircuitReset = 30 * time.Second
	}
}

// LoggingConfig controls the component logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (c *LoggingConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// AppConfig is the full settlement processor configuration.
type AppConfig struct {
	Service struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
	} `yaml:"service"`

	Store    postgres.Config `yaml:"store"`
	Pipeline PipelineConfig  `yaml:"pipeline"`
	Metrics  metrics.Config  `yaml:"metrics"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// LoadAppConfig loads the application configuration from a YAML file
// and applies every section's defaults.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Store.ApplyDefaults()
	cfg.Pipeline.ApplyDefaults()
	cfg.Metrics.ApplyDefaults()
	cfg.Logging.ApplyDefaults()

	return &cfg, nil
}

// Validate checks the required fields for a live deployment.
func (c *AppConfig) Validate() error {
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}
	if c.Pipeline.BatchSize <= 0 {
		return fmt.Errorf("pipeline.batch_size must be positive")
	}
	if c.Pipeline.MaxRetries <= 0 {
		return fmt.Errorf("pipeline.max_retries must be positive")
	}
	return nil
}
