// Package worker owns the background loop that coordinates the UI, the
// native file picker, and the filesystem watcher onto a single consumer.
//
// Signals are sent to the worker through an unbounded FIFO and processed
// strictly in the order they were accepted. While sending a signal the
// gate mutex stays locked; this closes the race where an update signal
// lands directly after a file-dialog signal, in which case the chosen
// file would be loaded twice in a row. While a picker is in flight,
// update signals are skipped entirely.
//
// All blocking work — the native dialog, file I/O, parsing, watch
// retargeting — happens on the worker goroutine. The UI only enqueues
// signals and drains responses.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aaronsalm/kurve/internal/curve"
	"github.com/aaronsalm/kurve/internal/history"
	"github.com/aaronsalm/kurve/internal/picker"
	"github.com/aaronsalm/kurve/internal/table"
	"github.com/aaronsalm/kurve/internal/telemetry"
	"github.com/aaronsalm/kurve/internal/watch"
)

// DefaultPollInterval is the fallback watcher poll interval.
const DefaultPollInterval = 500 * time.Millisecond

// Phase is the coarse position of the worker state machine.
type Phase int

const (
	// PhaseIdle: waiting for the next signal.
	PhaseIdle Phase = iota
	// PhaseBusy: a load is in flight.
	PhaseBusy
	// PhaseDead: the loop has terminated; no further signals are accepted.
	PhaseDead
)

// State is a copy of the worker's state machine position. Only the worker
// goroutine mutates it; the UI reads snapshots to enable or disable its
// controls.
type State struct {
	Phase Phase
	// WithFile: a file is tracked (meaningful while Idle).
	WithFile bool
	// NewFile: the in-flight load came from the picker (meaningful while Busy).
	NewFile bool
	// ByError: the loop exited abnormally (meaningful once Dead).
	ByError bool
}

// Config parameterizes a Worker. The zero value of every field has a
// usable default except History and Telemetry, which stay disabled when
// nil.
type Config struct {
	// Loader turns a path into a computed curve.
	Loader func(path string) (*curve.Output, error)
	// Picker shows the blocking file-selection dialog.
	Picker picker.Picker
	// PollInterval is the watcher's fallback poll interval.
	PollInterval time.Duration
	// Telemetry receives worker transition events. Nil disables it.
	Telemetry *telemetry.Emitter
	// History records load outcomes. Nil disables it.
	History *history.Store
}

// Worker is the single consumer of the signal queue. Spawn starts it;
// Send feeds it from any goroutine.
type Worker struct {
	cfg Config

	mu      sync.Mutex
	alive   bool
	state   State
	tracked string

	gateMu sync.Mutex
	lock   Signal

	signals   *fifo[Signal]
	responses *fifo[Response]

	watcher *watch.Watcher
}

// Spawn creates a worker with the given configuration and starts its
// loop.
func Spawn(cfg Config) *Worker {
	if cfg.Loader == nil {
		cfg.Loader = table.LoadCurve
	}
	if cfg.Picker == nil {
		cfg.Picker = picker.Native{Title: "Tabelle auswählen", Extensions: table.Extensions}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	w := &Worker{
		cfg:       cfg,
		alive:     true,
		state:     State{Phase: PhaseIdle},
		lock:      signalNone,
		signals:   newFIFO[Signal](),
		responses: newFIFO[Response](),
	}
	go w.run()
	return w
}

// Send enqueues a signal for the worker, preserving send order across all
// callers. Depending on the recorded lock the signal may be skipped; lock
// signals promote the recorded lock (a Stop overwrites a FileDialog lock,
// never the reverse). Send never blocks beyond the gate's critical
// section and is safe from any goroutine, including watcher callbacks.
func (w *Worker) Send(sig Signal) {
	w.gateMu.Lock()
	defer w.gateMu.Unlock()
	if w.lock != signalNone && sig.ShouldSkip(w.lock) {
		w.emit(telemetry.Event{Kind: telemetry.KindSignalSkipped, Signal: sig.String(), Detail: "lock " + w.lock.String()})
		return
	}
	if sig.IsLock() && sig > w.lock {
		w.lock = sig
	}
	w.signals.Send(sig)
}

// resetLock clears the recorded lock if the processed signal outranks it.
// Called by the worker after it fully processes a signal.
func (w *Worker) resetLock(sig Signal) {
	w.gateMu.Lock()
	defer w.gateMu.Unlock()
	if w.lock == signalNone {
		return
	}
	if !sig.CanUnlock(w.lock) {
		return
	}
	w.lock = signalNone
}

func (w *Worker) currentLock() Signal {
	w.gateMu.Lock()
	defer w.gateMu.Unlock()
	return w.lock
}

// IsAlive reports whether the worker still accepts signals. Readable from
// any goroutine; false once the worker reached the Dead phase.
func (w *Worker) IsAlive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alive
}

// State returns a snapshot of the worker state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// TrackedPath returns the currently tracked path, or "".
func (w *Worker) TrackedPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked
}

// TryResponse removes and returns the oldest pending response without
// blocking.
func (w *Worker) TryResponse() (Response, bool) {
	return w.responses.TryRecv()
}

// DrainResponses removes and returns all pending responses in arrival
// order. The UI calls this on its polling tick.
func (w *Worker) DrainResponses() []Response {
	return w.responses.Drain()
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Worker) setTracked(path string) {
	w.mu.Lock()
	w.tracked = path
	w.mu.Unlock()
}

func (w *Worker) respond(r Response) {
	w.responses.Send(r)
}

func (w *Worker) emit(evt telemetry.Event) {
	_ = w.cfg.Telemetry.Emit(evt)
}

// run executes the loop and records how it ended. A normal Stop leaves
// ByError false; a closed queue or failed watcher construction marks the
// death abnormal.
func (w *Worker) run() {
	err := w.loop()
	w.mu.Lock()
	w.alive = false
	w.state = State{Phase: PhaseDead, ByError: err != nil}
	w.mu.Unlock()
	if err != nil {
		w.emit(telemetry.Event{Kind: telemetry.KindWorkerFailed, Detail: err.Error()})
		return
	}
	w.emit(telemetry.Event{Kind: telemetry.KindWorkerStopped})
}

func (w *Worker) loop() error {
	watcher, err := watch.New(watch.Config{
		PollInterval: w.cfg.PollInterval,
		OnChange: func() {
			// The watcher callback never touches worker state directly;
			// it goes through the same gate as the UI.
			w.Send(SignalUpdate)
		},
		OnError: func(err error) {
			w.emit(telemetry.Event{Kind: telemetry.KindWatchError, Detail: err.Error()})
			w.respond(errorResponse(WorkerError{Kind: ErrWatcherFailed, Err: err}))
		},
	})
	if err != nil {
		return fmt.Errorf("worker: construct watcher: %w", err)
	}
	w.watcher = watcher
	defer watcher.Close()

	for {
		sig, ok := w.signals.Recv()
		if !ok {
			return errors.New("worker: signal queue closed")
		}
		// Signals that were queued before a Stop was recorded are dead on
		// arrival.
		if sig != SignalStop && w.currentLock() == SignalStop {
			w.emit(telemetry.Event{Kind: telemetry.KindSignalDiscarded, Signal: sig.String()})
			continue
		}
		w.emit(telemetry.Event{Kind: telemetry.KindSignalReceived, Signal: sig.String()})
		if sig == SignalStop {
			return nil
		}
		switch sig {
		case SignalFileDialog:
			w.handleFileDialog()
		case SignalUpdate:
			w.handleUpdate()
		case SignalUnload:
			w.handleUnload()
		}
		w.resetLock(sig)
	}
}

func (w *Worker) handleFileDialog() {
	prevWithFile := w.State().WithFile
	w.setState(State{Phase: PhaseBusy, NewFile: true})

	path, err := w.cfg.Picker.Pick()
	if err != nil {
		if errors.Is(err, picker.ErrCanceled) {
			// Dismissed: no response, no state change.
			w.setState(State{Phase: PhaseIdle, WithFile: prevWithFile})
			return
		}
		w.respond(errorResponse(WorkerError{Kind: ErrFileMissing, Err: err}))
		w.setState(State{Phase: PhaseIdle, WithFile: prevWithFile})
		return
	}
	if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
		w.respond(errorResponse(WorkerError{Kind: ErrFileMissing, Err: table.ErrFileMissing}))
		w.setState(State{Phase: PhaseIdle, WithFile: prevWithFile})
		return
	}

	// Retarget the watcher before loading so edits during the load are
	// not lost.
	w.watcher.Unwatch()
	if err := w.watcher.Watch(path); err != nil {
		w.emit(telemetry.Event{Kind: telemetry.KindWatchError, Path: path, Detail: err.Error()})
		w.respond(errorResponse(WorkerError{Kind: ErrWatcherFailed, Err: err}))
		w.setTracked("")
		w.setState(State{Phase: PhaseIdle, WithFile: false})
		return
	}
	w.emit(telemetry.Event{Kind: telemetry.KindWatchStart, Path: path})
	w.load(path, true)
}

func (w *Worker) handleUpdate() {
	tracked := w.TrackedPath()
	if tracked == "" {
		return
	}
	if info, err := os.Stat(tracked); err != nil || info.IsDir() {
		// The tracked file disappeared from disk.
		w.watcher.Unwatch()
		w.emit(telemetry.Event{Kind: telemetry.KindWatchStop, Path: tracked})
		w.setTracked("")
		w.respond(unloadResponse())
		w.setState(State{Phase: PhaseIdle, WithFile: false})
		return
	}
	w.setState(State{Phase: PhaseBusy})
	w.load(tracked, false)
}

func (w *Worker) handleUnload() {
	if tracked := w.TrackedPath(); tracked != "" {
		w.watcher.Unwatch()
		w.emit(telemetry.Event{Kind: telemetry.KindWatchStop, Path: tracked})
		w.setTracked("")
	}
	// The response is emitted even when nothing was tracked, so a resend
	// is harmless and always confirmed.
	w.respond(unloadResponse())
	w.setState(State{Phase: PhaseIdle, WithFile: false})
}

// load runs the loader and emits the outcome. fromDialog selects the
// failure policy: a failed dialog load drops the file entirely, while a
// failed re-read keeps the tracked file so the next on-disk change can
// recover it.
func (w *Worker) load(path string, fromDialog bool) {
	out, err := w.cfg.Loader(path)
	if err != nil {
		werr := classify(err)
		w.emit(telemetry.Event{Kind: telemetry.KindLoadFailed, Path: path, Detail: werr.Error()})
		w.record(history.Entry{Path: path, Status: history.StatusError, Error: werr.Error()})
		w.respond(errorResponse(werr))
		if fromDialog {
			w.watcher.Unwatch()
			w.setTracked("")
			w.setState(State{Phase: PhaseIdle, WithFile: false})
			return
		}
		w.setState(State{Phase: PhaseIdle, WithFile: true})
		return
	}
	w.setTracked(path)
	w.emit(telemetry.Event{Kind: telemetry.KindLoadOK, Path: path, Detail: fmt.Sprintf("%d points", len(out.Points))})
	w.record(history.Entry{Path: path, Status: history.StatusOK, Points: len(out.Points)})
	w.respond(outputResponse(out))
	w.setState(State{Phase: PhaseIdle, WithFile: true})
}

func (w *Worker) record(e history.Entry) {
	if w.cfg.History == nil {
		return
	}
	if _, err := w.cfg.History.Record(context.Background(), e); err != nil {
		w.emit(telemetry.Event{Kind: telemetry.KindLoadFailed, Path: e.Path, Detail: "history: " + err.Error()})
	}
}
