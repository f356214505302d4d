package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+" "+key)
}

func (r *recorder) has(want string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == want {
			return true
		}
	}
	return false
}

func TestWatchCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec recorder
	go func() {
		_ = Run(ctx, dir, testLogger(), rec.record)
	}()

	// Let the watcher register before mutating the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "new_template.md")
	if err := os.WriteFile(path, []byte("body"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("created new_template.md")
	}, "created event not observed")

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("deleted new_template.md")
	}, "deleted event not observed")
}

func TestWatchAtomicOverwriteIsUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.md")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec recorder
	go func() {
		_ = Run(ctx, dir, testLogger(), rec.record)
	}()
	time.Sleep(100 * time.Millisecond)

	// Same temp-then-rename sequence the store uses for overwrites.
	tmp := filepath.Join(dir, "existing.md.tmp42")
	if err := os.WriteFile(tmp, []byte("v2"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.has("updated existing.md")
	}, "updated event not observed")
	if rec.has("created existing.md") {
		t.Error("overwrite of known key reported as created")
	}
}

func TestWatchIgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec recorder
	go func() {
		_ = Run(ctx, dir, testLogger(), rec.record)
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "x.md.tmp1"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Give the watcher time to (wrongly) report it before checking.
	time.Sleep(300 * time.Millisecond)
	rec.mu.Lock()
	n := len(rec.events)
	rec.mu.Unlock()
	if n != 0 {
		t.Errorf("temp file produced %d events: %v", n, rec.events)
	}
}
