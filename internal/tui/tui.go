package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aaronsalm/kurve/internal/config"
	"github.com/aaronsalm/kurve/internal/worker"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program wrapping the worker.
// The program uses the alternate screen buffer for a clean TUI experience.
func NewProgram(w *worker.Worker, cfg config.Config, opts ...tea.ProgramOption) *Program {
	model := NewAppModel(w, cfg)

	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, opts...)

	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a TUI program, blocking until it exits.
// Returns an error if the program encounters a fatal error.
func Run(w *worker.Worker, cfg config.Config) error {
	p := NewProgram(w, cfg)
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
// Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
