package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit  key.Binding
	Pause key.Binding
	Save  key.Binding

	// Views
	FullMode  key.Binding
	FlameMode key.Binding

	// Navigation
	PrevThread key.Binding
	NextThread key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding

	// Tuning
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "exit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "play/pause"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),

		FullMode: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full mode"),
		),
		FlameMode: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "flame graph"),
		),

		PrevThread: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("◀", "prev thread"),
		),
		NextThread: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("▶", "next thread"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "pagedown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "go to bottom"),
		),

		ThresholdUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "threshold"),
		),
		ThresholdDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "threshold down"),
		),
	}
}
