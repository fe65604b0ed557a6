package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Open    key.Binding
	Reload  key.Binding
	Unload  key.Binding
	Dark    key.Binding
	Colored key.Binding
	Export  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open table"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Unload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unload"),
		),
		Dark: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dark"),
		),
		Colored: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "colored"),
		),
		Export: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save svg"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DeadKeyMap returns keybindings active once the worker has stopped.
// Everything that would signal the worker is disabled.
func DeadKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Open.SetEnabled(false)
	km.Reload.SetEnabled(false)
	km.Unload.SetEnabled(false)
	km.Export.SetEnabled(false)
	return km
}
