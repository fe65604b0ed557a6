package worker

// Signal is a payload-free command for the worker loop. The numeric order
// doubles as the lock rank the gate uses for skip and promotion decisions.
type Signal int

const (
	// SignalUpdate re-reads the currently tracked file.
	SignalUpdate Signal = iota
	// SignalUnload stops tracking the current file and tells the UI to
	// clear its view.
	SignalUnload
	// SignalFileDialog opens the native picker and loads the chosen file.
	SignalFileDialog
	// SignalStop terminates the worker loop.
	SignalStop
)

// signalNone marks an empty lock slot in the gate.
const signalNone Signal = -1

func (s Signal) String() string {
	switch s {
	case SignalUpdate:
		return "update"
	case SignalUnload:
		return "unload"
	case SignalFileDialog:
		return "file_dialog"
	case SignalStop:
		return "stop"
	default:
		return "none"
	}
}

// IsLock reports whether accepting the signal suppresses lower-priority
// duplicates until it has been processed.
func (s Signal) IsLock() bool {
	return s == SignalFileDialog || s == SignalStop
}

// ShouldSkip reports whether the signal must be discarded while lock is
// recorded. While a picker is in flight an Update would double-load the
// eventually chosen file, and a second FileDialog would open a second
// picker; once Stop is recorded nothing may pass.
func (s Signal) ShouldSkip(lock Signal) bool {
	switch lock {
	case SignalStop:
		return true
	case SignalFileDialog:
		return s == SignalUpdate || s == SignalFileDialog
	default:
		return false
	}
}

// CanUnlock reports whether processing the signal releases the recorded
// lock. Only signals of equal or higher rank unlock, and a Stop lock is
// terminal.
func (s Signal) CanUnlock(lock Signal) bool {
	switch lock {
	case SignalFileDialog:
		return s >= SignalFileDialog
	case SignalStop:
		return false
	default:
		return s >= lock
	}
}
