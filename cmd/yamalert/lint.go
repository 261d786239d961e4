package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lepicodon/yamalert/pkg/cli"
	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/promcheck"
	"github.com/lepicodon/yamalert/pkg/telemetry/logging"
	"github.com/lepicodon/yamalert/pkg/watch"
)

var lintFlags struct {
	file   string
	dir    string
	kind   string
	format string
	watch  bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Validate Prometheus rule-group files and Alertmanager configs.

The lint command parses each file and performs full validation:
  - YAML syntax validation
  - Document structure validation (groups, rules, routes, receivers)
  - PromQL syntax scan of every rule expression

Examples:
  # Lint a single rule file
  yamalert lint --file rules.yml

  # Lint an Alertmanager config
  yamalert lint --file alertmanager.yml --type alertmanager

  # Lint a directory
  yamalert lint --dir rules/

  # Re-lint on every change
  yamalert lint --dir rules/ --watch

  # JSON output for CI/CD
  yamalert lint --file rules.yml --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVarP(&lintFlags.kind, "type", "t", "auto", "document type: rule, alertmanager, auto")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().BoolVarP(&lintFlags.watch, "watch", "w", false, "re-run validation when files change")
}

// FileResult is the validation outcome for one file.
type FileResult struct {
	File          string   `json:"file"`
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	PromQLChecked int      `json:"promql_checked"`
	PromQLInvalid int      `json:"promql_invalid"`
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}
	if err := validKindFlag(lintFlags.kind); err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	if !lintFlags.watch {
		return lintOnce(cfg, format)
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return err
	}

	// Watch mode ignores per-run failures; the exit status reflects only
	// watcher errors.
	lintErr := lintOnce(cfg, format)
	if lintErr != nil {
		fmt.Fprintln(os.Stderr, lintErr)
	}

	target := lintFlags.file
	if target == "" {
		target = lintFlags.dir
	}
	watcher, err := watch.New(watch.DefaultConfig(target), logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	ctx := cli.SetupSignalHandler()
	return watcher.Watch(ctx, func(path string) {
		fmt.Printf("--- %s changed\n", path)
		if err := lintOnce(cfg, format); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	})
}

func lintOnce(cfg *config.Config, format cli.OutputFormat) error {
	files, err := collectFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(cfg, file))
	}

	if format == cli.FormatJSON {
		if err := cli.WriteJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printResults(results)
	}

	for _, r := range results {
		if !r.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

func collectFiles() ([]string, error) {
	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return nil, fmt.Errorf("listing rule files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	return files, nil
}

func lintFile(cfg *config.Config, path string) FileResult {
	result := FileResult{File: path}

	text, err := os.ReadFile(path)
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}
	if max := cfg.Validation.MaxDocumentBytes; max > 0 && len(text) > max {
		result.Errors = []string{fmt.Sprintf("document exceeds %d bytes", max)}
		return result
	}

	report := promcheck.ValidateDocumentWith(text, kindForFile(path), cfg.Validation.ScanOptions())
	result.Valid = report.Valid
	result.Errors = report.Errors
	result.PromQLChecked = report.PromQLChecked
	result.PromQLInvalid = report.PromQLInvalid
	return result
}

func validKindFlag(kind string) error {
	switch kind {
	case "auto", string(promcheck.KindRules), string(promcheck.KindAlertmanager):
		return nil
	default:
		return fmt.Errorf("invalid --type %q: must be rule, alertmanager, or auto", kind)
	}
}

// kindForFile resolves the document kind for one file. With --type auto,
// files named like "alertmanager.yml" are treated as routing configs.
func kindForFile(path string) promcheck.Kind {
	if lintFlags.kind != "auto" {
		return promcheck.Kind(lintFlags.kind)
	}
	if strings.Contains(strings.ToLower(filepath.Base(path)), "alertmanager") {
		return promcheck.KindAlertmanager
	}
	return promcheck.KindRules
}

func printResults(results []FileResult) {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Println("✓ Document structure valid")
			if result.PromQLChecked > 0 {
				fmt.Printf("✓ %d expression(s) scanned, all valid\n", result.PromQLChecked)
			}
		}

		for _, msg := range result.Errors {
			fmt.Printf("✗ Error: %s\n", msg)
			totalErrors++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalErrors)
}
