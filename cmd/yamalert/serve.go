package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lepicodon/yamalert/pkg/cli"
	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/seed"
	"github.com/lepicodon/yamalert/pkg/server"
	"github.com/lepicodon/yamalert/pkg/store"
	"github.com/lepicodon/yamalert/pkg/telemetry/logging"
	"github.com/lepicodon/yamalert/pkg/telemetry/metrics"
)

var serveFlags struct {
	seed bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the template catalogue and validation API",
	Long: `Run the HTTP API serving the template catalogue and on-demand
validation of documents and expressions.

The server exposes:
  GET    /api/templates                 template catalogue
  GET    /api/template/{id}             one template with content
  GET    /api/template/{id}/download    template content as a YAML attachment
  POST   /api/template                  create a template (requires token)
  POST   /api/template/{id}             update a template (requires token)
  DELETE /api/template/{id}             delete a template (requires token)
  POST   /api/validate/yaml             validate a document
  POST   /api/validate/promql           scan one expression
  GET    /healthz                       health check
  GET    /metrics                       Prometheus metrics (if enabled)

Examples:
  yamalert serve --config config.yaml
  yamalert serve --seed`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveFlags.seed, "seed", false, "insert the default template library when the store is empty")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging)
	if err != nil {
		return err
	}

	storage, err := store.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer storage.Close()

	ctx := cli.SetupSignalHandler()

	if serveFlags.seed {
		inserted, err := seed.Apply(ctx, storage)
		if err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}
		if inserted > 0 {
			logger.Info("seeded default templates", "count", inserted)
		}
	}

	var m *metrics.ValidationMetrics
	if cfg.Telemetry.Metrics.Enabled {
		m = metrics.New(cfg.Telemetry.Metrics)
	}

	if cfg.Sweep.Enabled {
		sweeper := server.NewSweeper(cfg.Sweep, cfg.Validation, storage, m, logger)
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	srv := server.New(server.Options{
		Config:  cfg,
		Storage: storage,
		Metrics: m,
		Logger:  logger,
	})

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}
