// Package picker wraps the native file-selection dialog behind a small
// interface so the worker can be tested without a display server.
package picker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned by Pick when the user dismisses the dialog.
var ErrCanceled = zenity.ErrCanceled

// Picker shows a file-selection dialog. Pick blocks until the user chooses
// a file or dismisses the dialog, so it must only be called from a
// goroutine that is allowed to block indefinitely.
type Picker interface {
	Pick() (string, error)
}

// Native is the zenity-backed dialog used in production.
type Native struct {
	// Title is the dialog window title.
	Title string
	// Extensions restricts the selectable files, e.g. "xlsx". Empty means
	// no filter.
	Extensions []string
}

// Pick shows the dialog and returns the selected path.
func (n Native) Pick() (string, error) {
	opts := []zenity.Option{zenity.Title(n.Title)}
	if len(n.Extensions) > 0 {
		patterns := make([]string, len(n.Extensions))
		for i, ext := range n.Extensions {
			patterns[i] = "*." + strings.TrimPrefix(ext, ".")
		}
		opts = append(opts, zenity.FileFilter{
			Name:     "Tabelle",
			Patterns: patterns,
			CaseFold: true,
		})
	}
	path, err := zenity.SelectFile(opts...)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("picker: select file: %w", err)
	}
	return path, nil
}
