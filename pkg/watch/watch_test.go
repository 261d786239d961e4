package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatch_FileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yml")
	if err := os.WriteFile(file, []byte("groups: []\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	cfg := DefaultConfig(dir)
	cfg.DebounceInterval = 20 * time.Millisecond
	w, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	changed := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Watch(ctx, func(path string) {
			select {
			case changed <- path:
			default:
			}
		})
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(file, []byte("groups:\n  - name: g\n    rules: []\n"), 0o644); err != nil {
		t.Fatalf("rewriting file: %v", err)
	}

	select {
	case path := <-changed:
		if filepath.Base(path) != "rules.yml" {
			t.Errorf("changed path = %q", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	wg.Wait()
	if err := w.Stop(); err != nil {
		t.Errorf("Stop error: %v", err)
	}
}

func TestWatch_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig(dir)
	cfg.DebounceInterval = 20 * time.Millisecond
	w, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	changed := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func(path string) {
			select {
			case changed <- path:
			default:
			}
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case path := <-changed:
		t.Errorf("unexpected change event for %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_MissingPath(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "absent"))
	w, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer w.Stop()

	if err := w.Watch(context.Background(), func(string) {}); err == nil {
		t.Error("watching a missing path succeeded")
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	var mu sync.Mutex
	calls := 0
	for i := 0; i < 10; i++ {
		d.trigger(func() {
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	fired := false
	d.trigger(func() { fired = true })
	d.stop()

	time.Sleep(120 * time.Millisecond)
	if fired {
		t.Error("callback fired after stop")
	}
}
