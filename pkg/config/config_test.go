package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lepicodon/yamalert/pkg/cli"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Validation.MaxDocumentBytes != DefaultMaxDocumentBytes {
		t.Errorf("MaxDocumentBytes = %d", cfg.Validation.MaxDocumentBytes)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestParse_FileValuesOverrideDefaults(t *testing.T) {
	in := `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 5s
storage:
  backend: memory
telemetry:
  logging:
    level: debug
    format: json
`
	cfg, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	// Unset fields still pick up defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Format = %q", cfg.Telemetry.Logging.Format)
	}
}

func TestParse_EnvOverridesFile(t *testing.T) {
	t.Setenv("YAMALERT_SERVER_LISTEN_ADDRESS", "127.0.0.1:7070")
	t.Setenv("YAMALERT_VALIDATION_ALLOW_EDGE_COMPARATORS", "true")

	cfg, err := Parse([]byte("server:\n  listen_address: \"0.0.0.0:9090\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7070" {
		t.Errorf("ListenAddress = %q, env override lost", cfg.Server.ListenAddress)
	}
	if !cfg.Validation.AllowEdgeComparators {
		t.Error("AllowEdgeComparators override lost")
	}
	if cfg.Validation.ScanOptions().RejectEdgeComparators {
		t.Error("ScanOptions did not reflect relaxation")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			"bad listen address",
			func(c *Config) { c.Server.ListenAddress = "no-port" },
			"server.listen_address",
		},
		{
			"unknown backend",
			func(c *Config) { c.Storage.Backend = "postgres" },
			"storage.backend",
		},
		{
			"idle exceeds open",
			func(c *Config) { c.Storage.SQLite.MaxIdleConns = 99 },
			"storage.sqlite.max_idle_conns",
		},
		{
			"zero document limit",
			func(c *Config) { c.Validation.MaxDocumentBytes = -1 },
			"validation.max_document_bytes",
		},
		{
			"bad log level",
			func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			"telemetry.logging.level",
		},
		{
			"bad sweep schedule",
			func(c *Config) { c.Sweep.Enabled = true; c.Sweep.Schedule = "often" },
			"sweep.schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ce *cli.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v (%T), want *cli.ConfigError", err, err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error = %v, want mention of %q", err, tt.field)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want default", cfg.Server.ListenAddress)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file did not fail")
	}
}
