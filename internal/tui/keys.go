package tui

import "github.com/charmbracelet/bubbles/key"

// keyBindings defines application-wide key bindings.
type keyBindings struct {
	Quit key.Binding
}

func newKeyBindings() keyBindings {
	return keyBindings{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
