package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Lightbox is the single-image overlay. Opening a second image replaces the
// first; there is no stack.
type Lightbox struct {
	src  string
	open bool
}

// NewLightbox returns a closed lightbox.
func NewLightbox() *Lightbox {
	return &Lightbox{}
}

// Open shows src.
func (l *Lightbox) Open(src string) {
	l.src = src
	l.open = true
}

// Close hides the overlay.
func (l *Lightbox) Close() {
	l.open = false
}

// Current returns the image source and whether the overlay is visible.
func (l *Lightbox) Current() (string, bool) {
	return l.src, l.open
}

// View renders the overlay centered in width x height.
func (l *Lightbox) View(theme themes.Theme, width, height int) string {
	box := theme.RoundedBox.
		BorderForeground(theme.Primary).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			theme.Title.Render("Image"),
			theme.Normal.Render(l.src),
			"",
			theme.Faint.Render("open the link above in a viewer • esc close"),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
