package main

import "testing"

func TestRunExprValid(t *testing.T) {
	exprFlags.format = "text"
	if err := runExpr(nil, []string{"rate(http_requests_total[5m]) > 0.1"}); err != nil {
		t.Errorf("runExpr() with valid expression returned error: %v", err)
	}
}

func TestRunExprInvalid(t *testing.T) {
	exprFlags.format = "text"
	if err := runExpr(nil, []string{"sum(rate(x[5m])"}); err == nil {
		t.Error("runExpr() with unbalanced parentheses should return error")
	}
}

func TestRunExprJSON(t *testing.T) {
	exprFlags.format = "json"
	if err := runExpr(nil, []string{"up == 0"}); err != nil {
		t.Errorf("runExpr() with JSON format returned error: %v", err)
	}
}

func TestRunExprBadFormat(t *testing.T) {
	exprFlags.format = "csv"
	if err := runExpr(nil, []string{"up"}); err == nil {
		t.Error("runExpr() with unknown format should return error")
	}
}
