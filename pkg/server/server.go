// Package server provides the HTTP API for template management and
// on-demand validation.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/store"
	"github.com/lepicodon/yamalert/pkg/telemetry/metrics"
)

// Server is the yamalert HTTP API server.
type Server struct {
	config      config.ServerConfig
	validation  config.ValidationConfig
	metricsPath string
	storage     store.Storage
	metrics     *metrics.ValidationMetrics
	logger      *slog.Logger

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options bundles the server's collaborators.
type Options struct {
	Config  *config.Config
	Storage store.Storage

	// Metrics may be nil; the /metrics endpoint is then disabled.
	Metrics *metrics.ValidationMetrics

	// Logger may be nil; slog.Default() is used.
	Logger *slog.Logger
}

// New creates a new API server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metricsPath := opts.Config.Telemetry.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Server{
		config:      opts.Config.Server,
		validation:  opts.Config.Validation,
		metricsPath: metricsPath,
		storage:     opts.Storage,
		metrics:     opts.Metrics,
		logger:      logger,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("API server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler builds the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/template/{id}", s.handleGetTemplate)
	mux.HandleFunc("GET /api/template/{id}/download", s.handleDownloadTemplate)
	mux.HandleFunc("POST /api/template", requireAuth(s.config.AdminToken, s.handleCreateTemplate))
	mux.HandleFunc("POST /api/template/{id}", requireAuth(s.config.AdminToken, s.handleUpdateTemplate))
	mux.HandleFunc("DELETE /api/template/{id}", requireAuth(s.config.AdminToken, s.handleDeleteTemplate))

	mux.HandleFunc("POST /api/validate/yaml", s.handleValidateYAML)
	mux.HandleFunc("POST /api/validate/promql", s.handleValidatePromQL)

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = maxBodyMiddleware(s.config.MaxBodyBytes)(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)

	return handler
}
