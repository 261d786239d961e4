package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// YAMALERT_* environment variable overrides, and validates the result.
// Environment variables always take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load, but a missing file yields the default
// configuration (still subject to environment overrides and validation).
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = nil
		} else {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration: %w", err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
// Variables follow the format YAMALERT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("YAMALERT_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("YAMALERT_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("YAMALERT_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("YAMALERT_SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	if val := os.Getenv("YAMALERT_SERVER_ADMIN_TOKEN"); val != "" {
		cfg.Server.AdminToken = val
	}

	if val := os.Getenv("YAMALERT_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("YAMALERT_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}

	if val := os.Getenv("YAMALERT_VALIDATION_MAX_DOCUMENT_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Validation.MaxDocumentBytes = i
		}
	}
	if val := os.Getenv("YAMALERT_VALIDATION_MAX_EXPRESSION_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Validation.MaxExpressionBytes = i
		}
	}
	if val := os.Getenv("YAMALERT_VALIDATION_ALLOW_EDGE_COMPARATORS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.AllowEdgeComparators = b
		}
	}
	if val := os.Getenv("YAMALERT_VALIDATION_ALLOW_NO_IDENTIFIER"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.AllowNoIdentifier = b
		}
	}

	if val := os.Getenv("YAMALERT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("YAMALERT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("YAMALERT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("YAMALERT_SWEEP_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Sweep.Enabled = b
		}
	}
	if val := os.Getenv("YAMALERT_SWEEP_SCHEDULE"); val != "" {
		cfg.Sweep.Schedule = val
	}
}
