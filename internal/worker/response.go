package worker

import (
	"errors"
	"fmt"

	"github.com/aaronsalm/kurve/internal/curve"
	"github.com/aaronsalm/kurve/internal/table"
)

// ErrorKind classifies worker errors for display.
type ErrorKind int

const (
	// ErrFileMissing: the selected or tracked path is not a regular file.
	ErrFileMissing ErrorKind = iota
	// ErrTableRead: the workbook could not be opened or read.
	ErrTableRead
	// ErrNoSheet: the workbook contains no worksheet.
	ErrNoSheet
	// ErrMalformedTable: the grid does not follow the expected layout.
	ErrMalformedTable
	// ErrWatcherFailed: watch registration or the event stream failed.
	ErrWatcherFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFileMissing:
		return "file does not exist"
	case ErrTableRead:
		return "table could not be read"
	case ErrNoSheet:
		return "no table in workbook"
	case ErrMalformedTable:
		return "table not correctly formatted"
	case ErrWatcherFailed:
		return "file watcher failed"
	default:
		return "unknown error"
	}
}

// WorkerError couples an error kind with its underlying cause.
type WorkerError struct {
	Kind ErrorKind
	Err  error
}

func (e WorkerError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e WorkerError) Unwrap() error { return e.Err }

// classify maps a loader error onto the response taxonomy.
func classify(err error) WorkerError {
	switch {
	case errors.Is(err, table.ErrFileMissing):
		return WorkerError{Kind: ErrFileMissing, Err: err}
	case errors.Is(err, table.ErrNoSheet):
		return WorkerError{Kind: ErrNoSheet, Err: err}
	case errors.Is(err, table.ErrMalformed):
		return WorkerError{Kind: ErrMalformedTable, Err: err}
	default:
		return WorkerError{Kind: ErrTableRead, Err: err}
	}
}

// ResponseKind tags a Response.
type ResponseKind int

const (
	// ResponseOutput carries a freshly computed curve.
	ResponseOutput ResponseKind = iota
	// ResponseUnload tells the UI to show its no-content placeholder.
	ResponseUnload
	// ResponseError carries a recoverable worker error.
	ResponseError
)

// Response is one worker-to-UI result. Values are delivered in order and
// owned by the UI once received.
type Response struct {
	Kind   ResponseKind
	Output *curve.Output // set when Kind == ResponseOutput
	Err    *WorkerError  // set when Kind == ResponseError
}

func outputResponse(out *curve.Output) Response {
	return Response{Kind: ResponseOutput, Output: out}
}

func unloadResponse() Response {
	return Response{Kind: ResponseUnload}
}

func errorResponse(err WorkerError) Response {
	return Response{Kind: ResponseError, Err: &err}
}
