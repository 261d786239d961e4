package config

import (
	"fmt"
	"net"

	"github.com/robfig/cron/v3"

	"github.com/lepicodon/yamalert/pkg/cli"
)

// Validate checks the configuration for values that cannot work at runtime.
// Failures are reported as *cli.ConfigError naming the offending field.
func Validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return cli.NewConfigError("server.listen_address",
			fmt.Sprintf("%q is not host:port: %v", cfg.Server.ListenAddress, err))
	}
	if cfg.Server.MaxBodyBytes < 0 {
		return cli.NewConfigError("server.max_body_bytes", "must not be negative")
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		if cfg.Storage.SQLite.Path == "" {
			return cli.NewConfigError("storage.sqlite.path", "required for the sqlite backend")
		}
		if cfg.Storage.SQLite.MaxIdleConns > cfg.Storage.SQLite.MaxOpenConns {
			return cli.NewConfigError("storage.sqlite.max_idle_conns",
				fmt.Sprintf("%d exceeds max_open_conns (%d)",
					cfg.Storage.SQLite.MaxIdleConns, cfg.Storage.SQLite.MaxOpenConns))
		}
	case "memory":
	default:
		return cli.NewConfigError("storage.backend",
			fmt.Sprintf("%q is not supported (sqlite, memory)", cfg.Storage.Backend))
	}

	if cfg.Validation.MaxDocumentBytes <= 0 {
		return cli.NewConfigError("validation.max_document_bytes", "must be positive")
	}
	if cfg.Validation.MaxExpressionBytes <= 0 {
		return cli.NewConfigError("validation.max_expression_bytes", "must be positive")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return cli.NewConfigError("telemetry.logging.level",
			fmt.Sprintf("%q is not supported", cfg.Telemetry.Logging.Level))
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return cli.NewConfigError("telemetry.logging.format",
			fmt.Sprintf("%q is not supported", cfg.Telemetry.Logging.Format))
	}

	if cfg.Sweep.Enabled {
		if _, err := cron.ParseStandard(cfg.Sweep.Schedule); err != nil {
			return cli.NewConfigError("sweep.schedule",
				fmt.Sprintf("%q is not a valid cron expression: %v", cfg.Sweep.Schedule, err))
		}
	}

	return nil
}
