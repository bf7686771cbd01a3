package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Table renders rows under headers with the selected row highlighted. A
// negative selected highlights nothing.
func Table(theme themes.Theme, headers []string, rows [][]string, selected, width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Bold(true).Foreground(theme.Muted)
			case row == selected:
				return base.Background(theme.Border).Bold(true)
			default:
				return base
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
