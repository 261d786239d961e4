// Package promcheck validates Prometheus rule files and Alertmanager
// configurations without executing anything against a metrics backend.
//
// The engine has three stages:
//
//  1. Document parsing: raw YAML becomes a generic data tree
//     (package document). A parse failure is terminal for the call.
//  2. Structural validation: the tree is walked against the schema for the
//     caller-selected document kind, collecting every violation rather than
//     stopping at the first (package validator). Each expr field found is
//     handed to the expression scanner and failures are reported inline
//     with the owning rule.
//  3. Aggregation: diagnostics and expression counters are merged into a
//     single Report.
//
// Expression checking is a lexical sanity pass (package promql), not a
// PromQL parser: it catches unbalanced delimiters, unterminated strings,
// control characters, and obviously malformed shapes, and deliberately
// accepts anything balanced with identifier-like content.
//
// The engine is purely functional over its inputs: no I/O, no shared
// mutable state, safe for any number of concurrent callers. Runtime is
// linear in input size; callers wanting a bound on work should bound input
// size (see config.ValidationConfig).
//
// Basic usage:
//
//	report := promcheck.ValidateDocument(raw, promcheck.KindRules)
//	if !report.Valid {
//		for _, msg := range report.Errors {
//			fmt.Println(msg)
//		}
//	}
package promcheck
