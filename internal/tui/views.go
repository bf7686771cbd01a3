package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.page.View()
	if _, open := m.env.Lightbox.Current(); open {
		body = m.env.Lightbox.View(m.config.Theme, m.width, m.pageHeight())
	}

	sections := []string{m.renderNav(), body}
	if toast := components.Toast(m.config.Theme, m.env.Notifier.Current()); toast != "" {
		sections = append(sections, toast)
	}
	if m.config.ShowHelp {
		sections = append(sections, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderNav renders the navigation bar with the active item highlighted.
func (m Model) renderNav() string {
	theme := m.config.Theme

	items := make([]string, 0, len(router.NavItems))
	for _, item := range router.NavItems {
		label := fmt.Sprintf("%s %s", item.Shortcut, item.Label)
		if router.IsActive(item.Key, m.location) {
			items = append(items, theme.NavActive.Render(label))
		} else {
			items = append(items, theme.NavItem.Render(label))
		}
	}

	brand := theme.Title.Render("PhoneCDP")
	nav := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	line := brand + "  " + nav

	width := max(m.width, lipgloss.Width(line))
	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		theme.Faint.Render(strings.Repeat("─", width)),
	)
}

// renderHelp renders the help bar for the current page.
func (m Model) renderHelp() string {
	if _, open := m.env.Lightbox.Current(); open {
		return m.help.ShortHelpView([]key.Binding{m.keymap.CloseOverlay})
	}
	return m.help.View(helpKeys{page: m.page.ShortHelp(), shell: m.keymap})
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
