package components

import (
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Toast renders the current notification, or nothing when hidden.
func Toast(theme themes.Theme, n notify.Notification) string {
	if !n.Visible {
		return ""
	}

	var icon string
	style := theme.RoundedBox
	switch n.Kind {
	case notify.KindSuccess:
		icon = theme.StatusSuccess.Render("✓")
		style = style.BorderForeground(theme.Success)
	case notify.KindError:
		icon = theme.StatusError.Render("✗")
		style = style.BorderForeground(theme.Error)
	default:
		icon = theme.StatusInfo.Render("i")
		style = style.BorderForeground(theme.Info)
	}
	return style.Render(icon + " " + theme.Normal.Render(n.Message))
}
