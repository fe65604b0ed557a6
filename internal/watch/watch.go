// Package watch tracks a single file for modification and removal.
//
// The watcher owns no business logic: every relevant filesystem event is
// reduced to one OnChange callback, and event-stream errors to OnError.
// Events for the tracked file are debounced so editor write bursts and
// atomic saves (remove + recreate) collapse into a single notification.
//
// fsnotify is the primary backend. Because many editors replace files
// instead of writing them in place, the parent directory is watched and
// events are filtered by name. When fsnotify cannot be constructed the
// watcher falls back to polling the tracked path at a fixed interval.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses event bursts for the tracked file.
const debounceDelay = 100 * time.Millisecond

// Config parameterizes a Watcher.
type Config struct {
	// PollInterval is the stat interval of the fallback poller. Required;
	// there is no default.
	PollInterval time.Duration
	// OnChange is invoked once per change burst of the watched path,
	// including its removal. Runs on a watcher-owned goroutine.
	OnChange func()
	// OnError is invoked for event-stream errors. May be nil.
	OnError func(error)
}

// Watcher tracks at most one path at a time. Watch and Unwatch may be
// called from any goroutine.
type Watcher struct {
	cfg Config

	mu       sync.Mutex
	path     string // cleaned absolute path, "" when nothing is tracked
	dir      string // parent directory currently added to fsw
	debounce *time.Timer
	closed   bool

	// Last observed file identity, poll mode only.
	pollMod  time.Time
	pollSize int64
	pollOK   bool

	fsw  *fsnotify.Watcher // nil in poll mode
	done chan struct{}
}

// New constructs a watcher and starts its event loop. When fsnotify is
// unavailable and cfg.PollInterval is not positive there is no usable
// backend and an error is returned.
func New(cfg Config) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, errors.New("watch: OnChange callback is required")
	}
	w := &Watcher{cfg: cfg, done: make(chan struct{})}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		if cfg.PollInterval <= 0 {
			return nil, err
		}
		go w.pollLoop()
		return w, nil
	}
	w.fsw = fsw
	go w.eventLoop()
	return w, nil
}

// Watch retargets the watcher to path, replacing any previously tracked
// one. The path itself need not exist yet in poll mode.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("watch: watcher is closed")
	}
	if w.fsw != nil {
		dir := filepath.Dir(abs)
		if dir != w.dir {
			if w.dir != "" {
				_ = w.fsw.Remove(w.dir)
			}
			if err := w.fsw.Add(dir); err != nil {
				w.dir = ""
				w.path = ""
				return err
			}
			w.dir = dir
		}
	}
	w.path = abs
	w.resetBaselineLocked()
	return nil
}

// Unwatch stops tracking the current path, if any.
func (w *Watcher) Unwatch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = ""
	if w.fsw != nil && w.dir != "" {
		_ = w.fsw.Remove(w.dir)
		w.dir = ""
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

// Path returns the currently tracked path, or "".
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops the watcher. No callbacks fire after Close returns.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.cfg.OnError != nil {
				w.cfg.OnError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	// Rename covers atomic saves, Create the recreate half of them.
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.path == "" || filepath.Clean(ev.Name) != w.path {
		return
	}
	w.scheduleChangeLocked()
}

// scheduleChangeLocked arms the debounce timer. Callers hold w.mu.
func (w *Watcher) scheduleChangeLocked() {
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		fire := !w.closed && w.path != ""
		w.mu.Unlock()
		if fire {
			w.cfg.OnChange()
		}
	})
}

func (w *Watcher) pollLoop() {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watcher) pollOnce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.path == "" {
		return
	}
	info, err := os.Stat(w.path)
	exists := err == nil
	changed := exists != w.pollOK
	if exists {
		changed = changed || !info.ModTime().Equal(w.pollMod) || info.Size() != w.pollSize
		w.pollMod = info.ModTime()
		w.pollSize = info.Size()
	}
	w.pollOK = exists
	if changed {
		w.scheduleChangeLocked()
	}
}

// resetBaselineLocked snapshots the file identity so the first poll after
// a retarget does not report a spurious change. Callers hold w.mu.
func (w *Watcher) resetBaselineLocked() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.pollOK = false
		return
	}
	w.pollOK = true
	w.pollMod = info.ModTime()
	w.pollSize = info.Size()
}
