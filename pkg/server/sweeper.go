package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/promcheck"
	"github.com/lepicodon/yamalert/pkg/store"
	"github.com/lepicodon/yamalert/pkg/telemetry/metrics"
)

// Sweeper periodically revalidates every stored template and publishes the
// valid/invalid counts. Templates can rot when the validator tightens or
// when they were stored before validation existed.
type Sweeper struct {
	storage  store.Storage
	scanOpts config.ValidationConfig
	metrics  *metrics.ValidationMetrics
	logger   *slog.Logger

	schedule string
	cron     *cron.Cron
}

// NewSweeper creates a sweeper on the given cron schedule.
func NewSweeper(cfg config.SweepConfig, validation config.ValidationConfig, storage store.Storage, m *metrics.ValidationMetrics, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		storage:  storage,
		scanOpts: validation,
		metrics:  m,
		logger:   logger,
		schedule: cfg.Schedule,
	}
}

// Start schedules the sweep and returns. The first sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()

	go s.Sweep(ctx)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep revalidates all stored templates once and returns the counts.
func (s *Sweeper) Sweep(ctx context.Context) (valid, invalid int) {
	templates, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error("sweep: listing templates", "error", err)
		return 0, 0
	}

	for _, t := range templates {
		kind := promcheck.Kind(t.Type)
		if !kind.Valid() {
			kind = promcheck.KindRules
		}
		report := promcheck.ValidateDocumentWith([]byte(t.Content), kind, s.scanOpts.ScanOptions())
		if report.Valid {
			valid++
			continue
		}
		invalid++
		s.logger.Warn("sweep: stored template is invalid",
			"id", t.ID,
			"name", t.Name,
			"type", t.Type,
			"errors", report.Errors,
		)
	}

	if s.metrics != nil {
		s.metrics.SetStoredTemplates(valid, invalid)
	}
	s.logger.Info("sweep completed", "templates", len(templates), "valid", valid, "invalid", invalid)

	return valid, invalid
}
