// Package diag provides diagnostic accumulation for document validation.
//
// Validation never stops at the first problem: every schema violation and
// invalid expression is collected into a List so that callers can present a
// complete picture of a document in one pass.
package diag

import (
	"fmt"
	"strings"
)

// Type categorizes a diagnostic produced during parsing or validation.
type Type string

const (
	TypeSyntax     Type = "syntax"     // document is not well-formed YAML
	TypeStructural Type = "structural" // schema violation (missing/invalid fields)
	TypeExpression Type = "expression" // embedded PromQL expression rejected
)

// Diagnostic is a single validation finding with a human-readable message.
type Diagnostic struct {
	Type    Type
	Message string
}

// List accumulates diagnostics in the order they were produced.
type List struct {
	Diagnostics []Diagnostic
}

// NewList creates a new empty diagnostic list.
func NewList() *List {
	return &List{Diagnostics: make([]Diagnostic, 0)}
}

// Add appends a diagnostic to the list.
func (l *List) Add(t Type, message string) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{Type: t, Message: message})
}

// Addf appends a diagnostic with a formatted message.
func (l *List) Addf(t Type, format string, args ...any) {
	l.Add(t, fmt.Sprintf(format, args...))
}

// HasDiagnostics returns true if the list contains any diagnostics.
func (l *List) HasDiagnostics() bool {
	return len(l.Diagnostics) > 0
}

// Count returns the number of diagnostics in the list.
func (l *List) Count() int {
	return len(l.Diagnostics)
}

// HasType returns true if the list contains at least one diagnostic of the
// given type.
func (l *List) HasType(t Type) bool {
	for _, d := range l.Diagnostics {
		if d.Type == t {
			return true
		}
	}
	return false
}

// ByType returns all diagnostics of the given type, preserving order.
func (l *List) ByType(t Type) []Diagnostic {
	var result []Diagnostic
	for _, d := range l.Diagnostics {
		if d.Type == t {
			result = append(result, d)
		}
	}
	return result
}

// Messages returns the diagnostic messages in production order.
func (l *List) Messages() []string {
	msgs := make([]string, 0, len(l.Diagnostics))
	for _, d := range l.Diagnostics {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

// Error implements the error interface over the whole list.
func (l *List) Error() string {
	if !l.HasDiagnostics() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d problem(s):", l.Count()))
	for _, d := range l.Diagnostics {
		sb.WriteString("\n  [")
		sb.WriteString(string(d.Type))
		sb.WriteString("] ")
		sb.WriteString(d.Message)
	}
	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (l *List) ToError() error {
	if !l.HasDiagnostics() {
		return nil
	}
	return l
}
