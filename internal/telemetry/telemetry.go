// Package telemetry provides a JSONL event stream recording worker
// activity. Every accepted signal, skip decision, load outcome, and watch
// retarget is written as one structured JSON line, making a session
// auditable after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindSignalReceived  = "signal_received"
	KindSignalSkipped   = "signal_skipped"
	KindSignalDiscarded = "signal_discarded"
	KindLoadOK          = "load_ok"
	KindLoadFailed      = "load_failed"
	KindWatchStart      = "watch_start"
	KindWatchStop       = "watch_stop"
	KindWatchError      = "watch_error"
	KindWorkerStopped   = "worker_stopped"
	KindWorkerFailed    = "worker_failed"
)

// Event represents a single telemetry record. Each event carries a
// timestamp and a kind tag, plus optional context: the signal involved,
// the file path concerned, and free-form detail.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Signal    string    `json:"signal,omitempty"`
	Path      string    `json:"path,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for
// concurrent use by multiple goroutines. A nil *Emitter is a valid no-op
// emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes a single event, stamping it with the current time if the
// caller left the timestamp zero. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
