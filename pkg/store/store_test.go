package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lepicodon/yamalert/pkg/config"
)

// storageUnderTest exercises the Storage contract shared by both backends.
func storageUnderTest(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	tmpl := &Template{
		Name:        "node exporter alerts",
		Type:        "rule",
		JobCategory: "infrastructure",
		SensorType:  "node",
		Content:     "groups: []\n",
	}
	if err := s.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if tmpl.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if tmpl.CreatedAt.IsZero() || tmpl.UpdatedAt.IsZero() {
		t.Fatal("Create did not assign timestamps")
	}

	got, err := s.Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != tmpl.Name || got.Content != tmpl.Content {
		t.Errorf("Get = %+v, want %+v", got, tmpl)
	}

	got.Description = "alerts for node exporter hosts"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	updated, err := s.Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("Get after update error: %v", err)
	}
	if updated.Description != got.Description {
		t.Errorf("description = %q after update", updated.Description)
	}

	second := &Template{Name: "alertmanager routing", Type: "alertmanager", Content: "route: {}\n"}
	if err := s.Create(ctx, second); err != nil {
		t.Fatalf("Create second error: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d templates, want 2", len(list))
	}
	// Catalogue order sorts by type first: alertmanager before rule.
	if list[0].Type != "alertmanager" || list[1].Type != "rule" {
		t.Errorf("list order = [%s, %s]", list[0].Type, list[1].Type)
	}

	if err := s.Delete(ctx, tmpl.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, &Template{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	storageUnderTest(t, s)
}

func TestMemoryStorage_CopiesOnRead(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	ctx := context.Background()

	tmpl := &Template{Name: "original", Type: "rule", Content: "groups: []\n"}
	if err := s.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, _ := s.Get(ctx, tmpl.ID)
	got.Name = "mutated"

	again, _ := s.Get(ctx, tmpl.ID)
	if again.Name != "original" {
		t.Error("mutation through Get result leaked into the store")
	}
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Path:    filepath.Join(t.TempDir(), "templates.db"),
		WALMode: true,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage error: %v", err)
	}
	defer s.Close()
	storageUnderTest(t, s)
}

func TestSQLiteStorage_Pragmas(t *testing.T) {
	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "templates.db"),
		BusyTimeout: 2 * time.Second,
		WALMode:     true,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage error: %v", err)
	}
	defer s.Close()

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode error: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
	}

	var busyTimeout int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("PRAGMA busy_timeout error: %v", err)
	}
	if busyTimeout != 2000 {
		t.Errorf("busy_timeout = %d, want 2000", busyTimeout)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(config.SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStorage error: %v", err)
	}
	tmpl := &Template{Name: "persisted", Type: "rule", Content: "groups: []\n"}
	if err := s.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	s2, err := NewSQLiteStorage(config.SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("Get after reopen error: %v", err)
	}
	if got.Name != "persisted" {
		t.Errorf("name = %q after reopen", got.Name)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(config.SQLiteConfig{}); err == nil {
		t.Error("empty path accepted")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open memory error: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Open memory returned %T", s)
	}

	if _, err := Open(config.StorageConfig{Backend: "postgres"}); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Summary
	}{
		{
			name: "alerts and recordings",
			content: `groups:
  - name: example
    rules:
      - alert: HighErrorRate
        expr: rate(errors_total[5m]) > 0.1
      - record: job:requests:rate5m
        expr: rate(requests_total[5m])
      - alert: InstanceDown
        expr: up == 0
`,
			want: Summary{HasAlerts: true, HasRecordings: true, AlertCount: 2, RecordCount: 1},
		},
		{
			name:    "empty groups",
			content: "groups: []\n",
			want:    Summary{},
		},
		{
			name:    "not yaml",
			content: "groups: [\n",
			want:    Summary{},
		},
		{
			name:    "alertmanager shape",
			content: "route:\n  receiver: ops\n",
			want:    Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.content); got != tt.want {
				t.Errorf("Summarize = %+v, want %+v", got, tt.want)
			}
		})
	}
}
