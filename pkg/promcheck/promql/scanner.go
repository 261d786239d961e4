// Package promql implements a lexical sanity check for PromQL expressions.
//
// The scanner is deliberately permissive: it accepts any syntactically
// balanced expression containing identifier-like content and never attempts
// to validate function names, arities, or label-matcher semantics. That is
// the chosen precision/recall trade-off — catching the structural mistakes
// people actually make in rule files (an unclosed paren, a stray quote)
// without maintaining a full PromQL grammar.
package promql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Options controls the strictness of the heuristic checks that run after the
// structural balance pass.
type Options struct {
	// RejectEdgeComparators rejects expressions that start or end with a
	// comparison operator (=, <, >, !). A bare ">80" is a threshold pasted
	// without its left-hand side, not a query.
	RejectEdgeComparators bool

	// RequireIdentifier rejects expressions containing no identifier-class
	// character (letter, digit, underscore, or colon). A query that selects
	// nothing cannot be meant.
	RequireIdentifier bool
}

// DefaultOptions returns the strictness applied by Scan.
func DefaultOptions() Options {
	return Options{
		RejectEdgeComparators: true,
		RequireIdentifier:     true,
	}
}

// Result is the outcome of scanning a single expression.
type Result struct {
	// Valid is true when the expression passed all checks.
	Valid bool

	// Reason describes the first failure. Empty when Valid.
	Reason string

	// Position is the character offset of a hard structural failure
	// (an unexpected closing delimiter), or -1 when not positional.
	Position int
}

// MarshalJSON serializes the result as {"valid": bool, "error": string|null}.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Valid bool    `json:"valid"`
		Error *string `json:"error"`
	}{Valid: r.Valid}
	if !r.Valid {
		reason := r.Reason
		out.Error = &reason
	}
	return json.Marshal(out)
}

func ok() Result {
	return Result{Valid: true, Position: -1}
}

func invalid(reason string) Result {
	return Result{Reason: reason, Position: -1}
}

func invalidAt(pos int, format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...), Position: pos}
}

// Scan checks one PromQL expression with the default strictness.
func Scan(expr string) Result {
	return ScanWith(expr, DefaultOptions())
}

// ScanWith checks one PromQL expression in a single left-to-right pass.
//
// The pass tracks three independent balance counters ({}, [], ()), a current
// string delimiter (", ', or backtick), and a one-character escape state.
// Characters inside a string are inert except for the matching delimiter; a
// closing delimiter that would drive its counter negative fails immediately
// with the offending position. Heuristic shape checks run only after the
// balance pass succeeds.
func ScanWith(expr string, opts Options) Result {
	if strings.TrimSpace(expr) == "" {
		return invalid("Empty expression")
	}

	// Control characters are rejected up front, before the balance pass.
	for _, ch := range expr {
		if ch < 0x20 {
			return invalid("Contains invalid control characters")
		}
	}

	var (
		braceBalance   int
		bracketBalance int
		parenBalance   int
		inString       rune // 0 when outside a string
		escape         bool
	)

	pos := 0
	for _, ch := range expr {
		i := pos
		pos++

		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}

		if inString != 0 {
			if ch == inString {
				inString = 0
			}
			continue
		}

		switch ch {
		case '"', '\'', '`':
			inString = ch

		case '{':
			braceBalance++
		case '}':
			braceBalance--
			if braceBalance < 0 {
				return invalidAt(i, "Unexpected closing brace '}' at position %d", i)
			}

		case '[':
			bracketBalance++
		case ']':
			bracketBalance--
			if bracketBalance < 0 {
				return invalidAt(i, "Unexpected closing bracket ']' at position %d", i)
			}

		case '(':
			parenBalance++
		case ')':
			parenBalance--
			if parenBalance < 0 {
				return invalidAt(i, "Unexpected closing parenthesis ')' at position %d", i)
			}
		}
	}

	if inString != 0 {
		return invalid("Unclosed string literal")
	}
	if braceBalance != 0 {
		return invalid("Unclosed braces {}")
	}
	if bracketBalance != 0 {
		return invalid("Unclosed brackets []")
	}
	if parenBalance != 0 {
		return invalid("Unclosed parentheses ()")
	}

	if opts.RejectEdgeComparators {
		stripped := strings.TrimSpace(expr)
		if isComparator(rune(stripped[0])) {
			return invalid("Expression cannot start with a comparison operator")
		}
		if isComparator(rune(stripped[len(stripped)-1])) {
			return invalid("Expression cannot end with a comparison operator")
		}
	}

	if opts.RequireIdentifier && !containsIdentifier(expr) {
		return invalid("Expression contains no identifier characters")
	}

	return ok()
}

func isComparator(ch rune) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!'
}

// containsIdentifier reports whether the expression contains at least one
// letter, digit, underscore, or colon — the character class metric names,
// label names, and recording-rule names are built from.
func containsIdentifier(expr string) bool {
	for _, ch := range expr {
		switch {
		case ch >= 'a' && ch <= 'z':
			return true
		case ch >= 'A' && ch <= 'Z':
			return true
		case ch >= '0' && ch <= '9':
			return true
		case ch == '_' || ch == ':':
			return true
		}
	}
	return false
}
