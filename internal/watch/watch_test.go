package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, changes *atomic.Int64) *Watcher {
	t.Helper()
	w, err := New(Config{
		PollInterval: 50 * time.Millisecond,
		OnChange:     func() { changes.Add(1) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

// waitCount polls until changes reaches at least want or the deadline hits.
func waitCount(t *testing.T, changes *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if changes.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("saw %d changes, want at least %d", changes.Load(), want)
}

func TestWatch_ModifyFires(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitCount(t, &changes, 1)
}

func TestWatch_RemoveFires(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitCount(t, &changes, 1)
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	other := filepath.Join(dir, "other.csv")
	for _, p := range []string{path, other} {
		if err := os.WriteFile(p, []byte("a"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(other, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got != 0 {
		t.Errorf("sibling write produced %d changes, want 0", got)
	}
}

func TestUnwatch_StopsNotifications(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.Unwatch()
	if got := w.Path(); got != "" {
		t.Errorf("Path() after Unwatch = %q, want empty", got)
	}

	if err := os.WriteFile(path, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got != 0 {
		t.Errorf("write after Unwatch produced %d changes, want 0", got)
	}
}

func TestWatch_Retarget(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	for _, p := range []string{first, second} {
		if err := os.WriteFile(p, []byte("a"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(first); err != nil {
		t.Fatalf("Watch(first): %v", err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatalf("Watch(second): %v", err)
	}

	// Only the second file is tracked now.
	if err := os.WriteFile(first, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got != 0 {
		t.Errorf("old target write produced %d changes, want 0", got)
	}

	if err := os.WriteFile(second, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitCount(t, &changes, 1)
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int64
	w := newTestWatcher(t, &changes)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// A burst of writes inside the debounce window collapses to one change.
	for i := range 5 {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	waitCount(t, &changes, 1)
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got > 2 {
		t.Errorf("burst produced %d changes, want at most 2", got)
	}
}

func TestClose_SilencesCallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.csv")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int64
	w, err := New(Config{
		PollInterval: 50 * time.Millisecond,
		OnChange:     func() { changes.Add(1) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.Close()
	w.Close() // idempotent

	if err := os.WriteFile(path, []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got != 0 {
		t.Errorf("write after Close produced %d changes, want 0", got)
	}
}

func TestNew_RequiresCallback(t *testing.T) {
	if _, err := New(Config{PollInterval: time.Second}); err == nil {
		t.Fatal("expected error for missing OnChange")
	}
}
