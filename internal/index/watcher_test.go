package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

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

func (r *recorder) record(kind, filename, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+filename+":"+name)
}

func (r *recorder) has(ev string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == ev {
			return true
		}
	}
	return false
}

func startWatch(t *testing.T, dir string, rec *recorder) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = Watch(ctx, dir, logger, rec.record)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_NewFileReported(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.WriteFile(filepath.Join(dir, "Button-1.0.md"), []byte("# Button"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:Button-1.0.md:Button")
	}, "expected created callback for Button-1.0.md")
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "Card-2.md"), []byte("# Card"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:Card-2.md:Card")
	}, "expected created callback for Card-2.md")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if strings.Contains(e, "notes.txt") {
			t.Errorf("unexpected event %q", e)
		}
	}
}

func TestWatcher_DeleteReported(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "Del-1.md"), []byte("# Delete Me"), 0o644)

	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.Remove(filepath.Join(dir, "Del-1.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("removed:Del-1.md:Del")
	}, "expected removed callback")
}

func TestWatcher_UpdateReported(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "Tabs-1.md"), []byte("# Tabs"), 0o644)

	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.WriteFile(filepath.Join(dir, "Tabs-1.md"), []byte("# Tabs v2"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("updated:Tabs-1.md:Tabs")
	}, "expected updated callback for Tabs-1.md")
}

func TestWatcher_RenameReported(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "Old-1.md"), []byte("# Rename"), 0o644)

	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.Rename(filepath.Join(dir, "Old-1.md"), filepath.Join(dir, "New-1.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("removed:Old-1.md:Old") && rec.has("created:New-1.md:New")
	}, "rename should report removed old + created new")
}

func TestWatcher_MissingRoot(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), logger, nil)
	if err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, logger, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
