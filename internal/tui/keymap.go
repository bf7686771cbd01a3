package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Veraticus/phonecdp/internal/router"
)

// KeyMap defines the shell shortcuts. Page shortcuts live with each page.
type KeyMap struct {
	// Navigation, one per nav item.
	Pages []key.Binding

	// Overlay
	CloseOverlay key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Refresh   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	pages := make([]key.Binding, len(router.NavItems))
	for i, item := range router.NavItems {
		pages[i] = key.NewBinding(
			key.WithKeys(item.Shortcut),
			key.WithHelp(item.Shortcut, item.Label),
		)
	}

	return KeyMap{
		Pages: pages,
		CloseOverlay: key.NewBinding(
			key.WithKeys("esc", "enter", "q"),
			key.WithHelp("esc", "close image"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
	}
}

// helpKeys joins the current page bindings with the shell bindings for the
// help bar.
type helpKeys struct {
	page  []key.Binding
	shell KeyMap
}

// ShortHelp returns key bindings for the short help view.
func (h helpKeys) ShortHelp() []key.Binding {
	return append(append([]key.Binding(nil), h.page...), h.shell.Help, h.shell.Quit)
}

// FullHelp returns all key bindings for the full help view.
func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.page,
		h.shell.Pages,
		{h.shell.Refresh, h.shell.Help, h.shell.Quit, h.shell.ForceQuit},
	}
}
