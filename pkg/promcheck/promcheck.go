package promcheck

import (
	"github.com/lepicodon/yamalert/pkg/promcheck/diag"
	"github.com/lepicodon/yamalert/pkg/promcheck/document"
	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
	"github.com/lepicodon/yamalert/pkg/promcheck/validator"
)

// Kind selects which schema a document is validated against.
type Kind = validator.DocumentKind

const (
	// KindRules validates a Prometheus rule-group document.
	KindRules = validator.KindRules

	// KindAlertmanager validates an Alertmanager routing configuration.
	KindAlertmanager = validator.KindAlertmanager
)

// Report is the merged outcome of one validation call.
type Report struct {
	// Valid is true iff the document parsed, no structural violations were
	// found, and every embedded expression passed the scanner.
	Valid bool `json:"valid"`

	// Errors holds all diagnostics in production order: the parse error
	// alone on non-parseable input, otherwise structural and expression
	// diagnostics in walk order. Expression failures appear once, inline
	// with the rule that owns them.
	Errors []string `json:"errors"`

	// PromQLChecked is the number of expressions handed to the scanner.
	PromQLChecked int `json:"promql_checked"`

	// PromQLInvalid is the number of those the scanner rejected.
	PromQLInvalid int `json:"promql_invalid"`
}

// ValidateDocument parses and validates one document with the default
// expression strictness. It never returns an error and never panics for any
// input: all failures are reported through the Report.
func ValidateDocument(text []byte, kind Kind) *Report {
	return ValidateDocumentWith(text, kind, promql.DefaultOptions())
}

// ValidateDocumentWith is ValidateDocument with explicit expression
// strictness flags.
func ValidateDocumentWith(text []byte, kind Kind, opts promql.Options) *Report {
	list, checked, invalid := diagnose(text, kind, opts)

	return &Report{
		Valid:         !list.HasDiagnostics() && invalid == 0,
		Errors:        list.Messages(),
		PromQLChecked: checked,
		PromQLInvalid: invalid,
	}
}

// diagnose produces the typed diagnostic list behind a Report.
func diagnose(text []byte, kind Kind, opts promql.Options) (*diag.List, int, int) {
	root, err := document.Parse(text)
	if err != nil {
		// Parse failure is terminal: no structural or expression checks run.
		list := diag.NewList()
		list.Add(diag.TypeSyntax, err.Error())
		return list, 0, 0
	}

	out := validator.NewWithOptions(opts).Validate(root, kind)
	return out.Diagnostics, out.ExprChecked, out.ExprInvalid
}

// ScanExpression checks a single PromQL expression outside any document
// context, using the default strictness.
func ScanExpression(expr string) promql.Result {
	return promql.Scan(expr)
}
