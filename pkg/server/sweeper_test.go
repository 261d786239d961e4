package server

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/store"
	"github.com/lepicodon/yamalert/pkg/telemetry/metrics"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	storage := store.NewMemoryStorage()
	defer storage.Close()

	createTemplate(t, storage, "good", "rule", validRules)
	createTemplate(t, storage, "bad", "rule", "groups:\n  - rules: []\n")
	createTemplate(t, storage, "routing", "alertmanager", "route:\n  receiver: ops\nreceivers:\n  - name: ops\n")

	m := metrics.New(cfg.Telemetry.Metrics)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewSweeper(cfg.Sweep, cfg.Validation, storage, m, logger)

	valid, invalid := sweeper.Sweep(ctx)
	if valid != 2 || invalid != 1 {
		t.Errorf("sweep = (%d valid, %d invalid), want (2, 1)", valid, invalid)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `yamalert_stored_templates{validity="valid"} 2`) {
		t.Errorf("metrics missing valid gauge:\n%s", body)
	}
	if !strings.Contains(body, `yamalert_stored_templates{validity="invalid"} 1`) {
		t.Errorf("metrics missing invalid gauge:\n%s", body)
	}
}

func TestSweep_EmptyStore(t *testing.T) {
	cfg := config.Default()
	storage := store.NewMemoryStorage()
	defer storage.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewSweeper(cfg.Sweep, cfg.Validation, storage, nil, logger)

	valid, invalid := sweeper.Sweep(context.Background())
	if valid != 0 || invalid != 0 {
		t.Errorf("sweep on empty store = (%d, %d)", valid, invalid)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	cfg := config.Default()
	storage := store.NewMemoryStorage()
	defer storage.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewSweeper(cfg.Sweep, cfg.Validation, storage, nil, logger)

	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	sweeper.Stop()
}

func TestSweeper_BadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Sweep.Schedule = "not a schedule"
	storage := store.NewMemoryStorage()
	defer storage.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewSweeper(cfg.Sweep, cfg.Validation, storage, nil, logger)

	if err := sweeper.Start(context.Background()); err == nil {
		t.Error("invalid schedule accepted")
	}
}
