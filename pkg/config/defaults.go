package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress      = "127.0.0.1:8080"
	DefaultReadTimeout        = 15 * time.Second
	DefaultWriteTimeout       = 30 * time.Second
	DefaultIdleTimeout        = 60 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultMaxBodyBytes       = 1 << 20 // 1 MiB
	DefaultStorageBackend     = "sqlite"
	DefaultSQLitePath         = "data/yamalert.db"
	DefaultSQLiteMaxOpen      = 10
	DefaultSQLiteMaxIdle      = 5
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultMaxDocumentBytes   = 512 << 10 // 512 KiB
	DefaultMaxExpressionBytes = 8 << 10   // 8 KiB
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "yamalert"
	DefaultSweepSchedule      = "*/15 * * * *"
)

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpen
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdle
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	if cfg.Validation.MaxDocumentBytes == 0 {
		cfg.Validation.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if cfg.Validation.MaxExpressionBytes == 0 {
		cfg.Validation.MaxExpressionBytes = DefaultMaxExpressionBytes
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Sweep.Schedule == "" {
		cfg.Sweep.Schedule = DefaultSweepSchedule
	}
}
