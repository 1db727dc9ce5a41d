package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the global key bindings of the root model. The send and new
// topic bindings live in keys.Policy since they depend on the send shortcut.
type KeyMap struct {
	Quit          key.Binding
	ToggleSend    key.Binding
	ToggleSidebar key.Binding
	FlipSidebar   key.Binding
	ClearTopic    key.Binding
	Cancel        key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		ToggleSend: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle send key"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "topics"),
		),
		FlipSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "move sidebar"),
		),
		ClearTopic: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear topic"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop"),
		),
	}
}
