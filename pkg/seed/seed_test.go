package seed

import (
	"context"
	"testing"

	"github.com/lepicodon/yamalert/pkg/promcheck"
	"github.com/lepicodon/yamalert/pkg/store"
)

func TestTemplates_AllValid(t *testing.T) {
	for _, tmpl := range Templates() {
		t.Run(tmpl.Name, func(t *testing.T) {
			kind := promcheck.Kind(tmpl.Type)
			report := promcheck.ValidateDocument([]byte(tmpl.Content), kind)
			if !report.Valid {
				t.Errorf("default template fails validation: %v", report.Errors)
			}
		})
	}
}

func TestTemplates_FreshValues(t *testing.T) {
	a := Templates()
	a[0].Name = "mutated"
	b := Templates()
	if b[0].Name == "mutated" {
		t.Error("Templates returned shared values")
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemoryStorage()
	defer storage.Close()

	inserted, err := Apply(ctx, storage)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if want := len(Templates()); inserted != want {
		t.Errorf("inserted = %d, want %d", inserted, want)
	}

	list, err := storage.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != inserted {
		t.Errorf("store holds %d templates, want %d", len(list), inserted)
	}
}

func TestApply_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemoryStorage()
	defer storage.Close()

	existing := &store.Template{Name: "custom", Type: "rule", Content: "groups: []\n"}
	if err := storage.Create(ctx, existing); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	inserted, err := Apply(ctx, storage)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d into a non-empty store", inserted)
	}

	list, _ := storage.List(ctx)
	if len(list) != 1 {
		t.Errorf("store holds %d templates, want 1", len(list))
	}
}
