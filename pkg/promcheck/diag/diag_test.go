package diag

import (
	"strings"
	"testing"
)

func TestList_AccumulatesInOrder(t *testing.T) {
	l := NewList()
	l.Add(TypeStructural, "first")
	l.Addf(TypeExpression, "second %d", 2)
	l.Add(TypeStructural, "third")

	want := []string{"first", "second 2", "third"}
	got := l.Messages()
	if len(got) != len(want) {
		t.Fatalf("messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if l.Count() != 3 {
		t.Errorf("Count = %d, want 3", l.Count())
	}
}

func TestList_TypeQueries(t *testing.T) {
	l := NewList()
	l.Add(TypeStructural, "a")
	l.Add(TypeExpression, "b")
	l.Add(TypeStructural, "c")

	if !l.HasType(TypeStructural) || !l.HasType(TypeExpression) {
		t.Error("HasType missed a present type")
	}
	if l.HasType(TypeSyntax) {
		t.Error("HasType reported an absent type")
	}
	if structural := l.ByType(TypeStructural); len(structural) != 2 {
		t.Errorf("ByType(structural) = %v", structural)
	}
}

func TestList_EmptyBehavior(t *testing.T) {
	l := NewList()

	if l.HasDiagnostics() {
		t.Error("empty list claims diagnostics")
	}
	if l.ToError() != nil {
		t.Error("empty list converts to non-nil error")
	}
	if msgs := l.Messages(); msgs == nil || len(msgs) != 0 {
		t.Errorf("Messages on empty list = %v, want empty non-nil slice", msgs)
	}
}

func TestList_ErrorFormatting(t *testing.T) {
	l := NewList()
	l.Add(TypeStructural, "Missing 'route'")
	l.Add(TypeExpression, "bad expr")

	err := l.ToError()
	if err == nil {
		t.Fatal("ToError returned nil for non-empty list")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 problem(s)") ||
		!strings.Contains(msg, "[structural] Missing 'route'") ||
		!strings.Contains(msg, "[expression] bad expr") {
		t.Errorf("Error() = %q", msg)
	}
}
