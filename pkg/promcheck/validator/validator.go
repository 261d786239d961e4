// Package validator walks a parsed document tree against one of the two
// supported schemas and collects field-level diagnostics.
//
// Validation is collect-everything: a malformed group or receiver is reported
// and skipped, and validation proceeds to its siblings. Only a document whose
// root has the wrong shape ends a walk early, because nothing below it can be
// addressed. Diagnostics use 1-based "Group #i" / "Rule #j" / "Receiver #i"
// numbering; existing consumers parse these messages, so the numbering and
// key phrases are load-bearing.
package validator

import (
	"github.com/lepicodon/yamalert/pkg/promcheck/diag"
	"github.com/lepicodon/yamalert/pkg/promcheck/document"
	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
)

// DocumentKind selects which schema a document is validated against.
// It is supplied by the caller, never inferred from content.
type DocumentKind string

const (
	// KindRules is a Prometheus alerting/recording rule-group document.
	KindRules DocumentKind = "rule"

	// KindAlertmanager is an Alertmanager routing configuration.
	KindAlertmanager DocumentKind = "alertmanager"
)

// Valid reports whether k names a supported schema.
func (k DocumentKind) Valid() bool {
	return k == KindRules || k == KindAlertmanager
}

// Outcome is the result of one structural walk.
type Outcome struct {
	// Diagnostics holds every violation found, in walk order. Expression
	// failures appear here inline with the rule that owns them.
	Diagnostics *diag.List

	// ExprChecked is the number of expr fields handed to the scanner.
	ExprChecked int

	// ExprInvalid is the number of those the scanner rejected.
	ExprInvalid int
}

// Validator validates document trees against the rule-group and
// routing-config schemas.
type Validator struct {
	scanOpts promql.Options
}

// New creates a validator using the default expression strictness.
func New() *Validator {
	return NewWithOptions(promql.DefaultOptions())
}

// NewWithOptions creates a validator with explicit expression strictness.
func NewWithOptions(opts promql.Options) *Validator {
	return &Validator{scanOpts: opts}
}

// Validate walks the tree against the schema selected by kind.
// It never returns an error: all findings land in the outcome's diagnostics.
func (v *Validator) Validate(root *document.Node, kind DocumentKind) *Outcome {
	out := &Outcome{Diagnostics: diag.NewList()}

	switch kind {
	case KindAlertmanager:
		v.validateRoutingConfig(root, out)
	default:
		v.validateRuleSet(root, out)
	}

	return out
}
