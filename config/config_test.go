package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPipelineConfigApplyDefaultsFillsZeroFields(t *testing.T) {
	var c PipelineConfig
	c.ApplyDefaults()
	if c.BatchSize != 500 || c.MaxRetries != 3 || c.RetryStep != time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CircuitMaxFail != 5 || c.CircuitReset != 30*time.Second {
		t.Fatalf("unexpected circuit defaults: %+v", c)
	}
}

func TestPipelineConfigApplyDefaultsPreservesSetFields(t *testing.T) {
	c := PipelineConfig{BatchSize: 50, MaxRetries: 1}
	c.ApplyDefaults()
	if c.BatchSize != 50 || c.MaxRetries != 1 {
		t.Fatalf("ApplyDefaults must not override explicitly set fields, got %+v", c)
	}
	if c.RetryStep != time.Second {
		t.Fatalf("expected the zero RetryStep to still be defaulted, got %s", c.RetryStep)
	}
}

func TestLoadAppConfigParsesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	yaml := `
service:
  name: vss-settlement
  environment: staging
store:
  dsn: "postgres://localhost/vss"
pipeline:
  batch_size: 250
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Service.Name != "vss-settlement" || cfg.Service.Environment != "staging" {
		t.Fatalf("unexpected service section: %+v", cfg.Service)
	}
	if cfg.Store.DSN != "postgres://localhost/vss" {
		t.Fatalf("expected dsn to round-trip, got %q", cfg.Store.DSN)
	}
	if cfg.Pipeline.BatchSize != 250 {
		t.Fatalf("expected explicit batch_size to survive defaulting, got %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.MaxRetries != 3 {
		t.Fatalf("expected pipeline defaults applied for unset fields, got %d", cfg.Pipeline.MaxRetries)
	}
	if cfg.Store.MaxOpenConns != 10 {
		t.Fatalf("expected store pool defaults applied, got %d", cfg.Store.MaxOpenConns)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected logging default level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadAppConfigMissingFileErrors(t *testing.T) {
	if _, err := LoadAppConfig("/nonexistent/path/app.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidateRequiresDSNAndPositivePipelineFields(t *testing.T) {
	cfg := &AppConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to require store.dsn")
	}

	cfg.Store.DSN = "postgres://localhost/vss"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to require a positive batch size")
	}

	cfg.Pipeline.BatchSize = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to require a positive max retries")
	}

	cfg.Pipeline.MaxRetries = 3
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected a fully populated config to validate, got %v", err)
	}
}
