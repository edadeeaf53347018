package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings. Panel-local keys (j/k, a, d, r, ...)
// are handled by the focused panel.
type KeyMap struct {
	FocusNext key.Binding
	FocusPrev key.Binding
	Focus     key.Binding

	Connect    key.Binding
	Disconnect key.Binding
	OpenEnv    key.Binding
	CloseEnv   key.Binding
	Destroy    key.Binding
	Start      key.Binding
	Stop       key.Binding
	Editor     key.Binding

	Help key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next panel"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous panel"),
		),
		Focus: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "focus panel"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "disconnect"),
		),
		OpenEnv: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "open environment"),
		),
		CloseEnv: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "close environment"),
		),
		Destroy: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "toggle destroy"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stop"),
		),
		Editor: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "plan editor"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
