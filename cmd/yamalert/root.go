package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "yamalert",
	Short: "Yamalert - validation for metrics-alerting configuration",
	Long: `Yamalert validates metrics-alerting configuration as code.

It checks two document kinds:
  - Prometheus rule groups (alerting and recording rules)
  - Alertmanager routing configuration

Every rule expression is additionally run through a PromQL syntax scan
that catches unbalanced delimiters, unclosed strings, and malformed
expressions before they reach Prometheus.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
