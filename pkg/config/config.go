// Package config defines the yamalert configuration schema and loading.
//
// Configuration is read from a YAML file, filled in with defaults, optionally
// overridden by YAMALERT_* environment variables, and validated before use.
package config

import (
	"time"

	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
)

// Config is the root configuration for the yamalert service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Validation ValidationConfig `yaml:"validation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Sweep      SweepConfig      `yaml:"sweep"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the host:port the API listens on.
	ListenAddress string `yaml:"listen_address"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies before they reach the validator.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// AdminToken authorizes template writes (create/update/delete).
	// Empty disables the write endpoints entirely.
	AdminToken string `yaml:"admin_token"`
}

// StorageConfig selects and configures the template store backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend"`

	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig configures the SQLite template store.
type SQLiteConfig struct {
	Path         string        `yaml:"path"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
	WALMode      bool          `yaml:"wal_mode"`
}

// ValidationConfig bounds validator input and relaxes scanner strictness.
// The zero value is the strict default: both heuristics on.
type ValidationConfig struct {
	// MaxDocumentBytes caps documents handed to the validator. The engine
	// itself has no internal limit; work is bounded here.
	MaxDocumentBytes int `yaml:"max_document_bytes"`

	// MaxExpressionBytes caps standalone expressions handed to the scanner.
	MaxExpressionBytes int `yaml:"max_expression_bytes"`

	// AllowEdgeComparators disables rejection of expressions that start or
	// end with a comparison operator.
	AllowEdgeComparators bool `yaml:"allow_edge_comparators"`

	// AllowNoIdentifier disables the requirement that expressions contain
	// at least one identifier-class character.
	AllowNoIdentifier bool `yaml:"allow_no_identifier"`
}

// ScanOptions converts the relaxation flags into scanner options.
func (v ValidationConfig) ScanOptions() promql.Options {
	return promql.Options{
		RejectEdgeComparators: !v.AllowEdgeComparators,
		RequireIdentifier:     !v.AllowNoIdentifier,
	}
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// SweepConfig configures the periodic revalidation of stored templates.
type SweepConfig struct {
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard cron expression, e.g. "*/15 * * * *".
	Schedule string `yaml:"schedule"`
}
