package pages

import "github.com/charmbracelet/bubbles/key"

// Bindings shared by several pages.
var (
	keyUp = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)
	keyDown = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)
	keyOpen = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	)
	keyNext = key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	)
	keyPrev = key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	)
	keyExport = key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export csv"),
	)
	keySubmit = key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit"),
	)
	keyBack = key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b/esc", "back"),
	)
)
