package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() {
		count.Add(1)
	})
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for the debounce window to expire
	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 callback invocation, got %d", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() {
		count.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 callback invocations after stop, got %d", got)
	}
}

func TestArtifactWatcher_ReportsWrite(t *testing.T) {
	dir := t.TempDir()

	events := make(chan ChangeEvent, 1)
	w, err := NewArtifactWatcher(20*time.Millisecond, func(ev ChangeEvent) {
		select {
		case events <- ev:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewArtifactWatcher: %v", err)
	}
	if err := w.WatchRecursive(dir); err != nil {
		t.Fatalf("WatchRecursive: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the event loop a moment to start before touching the tree.
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(dir, "1-1-setup.md")
	if err := os.WriteFile(path, []byte("Status: done\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Path != path {
			t.Errorf("event path = %q, want %q", ev.Path, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change event within timeout")
	}
}

func TestArtifactWatcher_MissingRootTolerated(t *testing.T) {
	w, err := NewArtifactWatcher(10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewArtifactWatcher: %v", err)
	}
	defer w.watcher.Close()

	if err := w.WatchRecursive(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("a missing root must not fail: %v", err)
	}
}
