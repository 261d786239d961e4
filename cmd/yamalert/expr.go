package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lepicodon/yamalert/pkg/cli"
	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
)

var exprFlags struct {
	format string
}

var exprCmd = &cobra.Command{
	Use:   "expr <expression>",
	Short: "Check a single PromQL expression",
	Long: `Run the PromQL syntax scan on one expression.

The scan catches unbalanced braces, brackets, and parentheses, unclosed
string literals, control characters, and expressions that start or end
with a comparison operator.

Examples:
  yamalert expr 'rate(http_requests_total[5m]) > 0.1'
  yamalert expr 'up{job="node"} == 0' --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExpr,
}

func init() {
	rootCmd.AddCommand(exprCmd)

	exprCmd.Flags().StringVar(&exprFlags.format, "format", "text", "output format: text, json")
}

func runExpr(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(exprFlags.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	expr := args[0]
	if max := cfg.Validation.MaxExpressionBytes; max > 0 && len(expr) > max {
		return fmt.Errorf("expression exceeds %d bytes", max)
	}

	result := promql.ScanWith(expr, cfg.Validation.ScanOptions())

	if format == cli.FormatJSON {
		if err := cli.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Println("✓ Expression valid")
	} else {
		fmt.Printf("✗ %s\n", result.Reason)
	}

	if !result.Valid {
		return cli.NewCommandError("expr", fmt.Errorf("invalid expression"))
	}
	return nil
}
