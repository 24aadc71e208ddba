package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the viewer.
type KeyMap struct {
	ToggleView  key.Binding
	NextFilter  key.Binding
	PrevFilter  key.Binding
	ClearFilter key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap is the built-in key binding set. Arrow keys, j/k and page
// up/down scroll the chart through the viewport's own bindings.
var DefaultKeyMap = KeyMap{
	ToggleView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle chart / to-do list"),
	),
	NextFilter: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next resource filter"),
	),
	PrevFilter: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "previous resource filter"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "clear filter"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r", "reload projects"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "h"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.ToggleView, k.NextFilter, k.PrevFilter, k.ClearFilter, k.Refresh, k.Help, k.Quit}
}
