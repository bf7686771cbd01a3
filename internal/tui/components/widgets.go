// Package components renders the reusable widgets of the pages.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

// Badge renders a verdict badge. Unknown verdicts render their literal text
// in the neutral style.
func Badge(theme themes.Theme, v model.Verdict) string {
	b := viewmodel.NewBadge(v)
	return theme.BadgeStyle(b.Tone).Render(b.Text)
}

func bar(theme themes.Theme, tone themes.Tone, percent, width int) string {
	p := progress.New(
		progress.WithSolidFill(string(theme.Color(tone))),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	p.EmptyColor = string(theme.Border)
	return p.ViewAs(float64(percent) / 100)
}

// Gauge renders the confidence gauge with its threshold legend.
func Gauge(theme themes.Theme, confidence float64, width int) string {
	g := viewmodel.NewGauge(confidence)
	width = max(width, 20)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Bold.Render("Confidence"),
		"  ",
		theme.Text(g.Tier.Tone()).Render(g.Label),
	)

	legend := make([]rune, width)
	for i := range legend {
		legend[i] = ' '
	}
	mid := int(float64(width) * viewmodel.MidThreshold)
	high := int(float64(width) * viewmodel.HighThreshold)
	legend[min(mid, width-1)] = '|'
	legend[min(high, width-1)] = '|'

	labels := fmt.Sprintf("%-*s%-*s%s", mid, "Counterfeit", high-mid, "Suspicious", "Authentic")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		bar(theme, g.Tier.Tone(), g.Percent, width),
		theme.Faint.Render(string(legend)),
		theme.Faint.Render(labels),
	)
}

// ScoreBars renders the four weighted score bars.
func ScoreBars(theme themes.Theme, scores model.Scores, weights model.Weights, width int) string {
	rows := viewmodel.ScoreRows(scores, weights)
	barWidth := max(width-28, 10)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := fmt.Sprintf("%-12s", r.Name) + theme.Faint.Render(fmt.Sprintf("%-6s", fmt.Sprintf("(%d%%)", r.WeightPercent)))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			label, " ",
			bar(theme, r.Tier.Tone(), r.Percent, barWidth),
			" ", fmt.Sprintf("%.3f", r.Score),
		))
	}
	return strings.Join(lines, "\n")
}

// MarkerSlots renders the fiducial marker indicator.
func MarkerSlots(theme themes.Theme, found int) string {
	var b strings.Builder
	for _, filled := range viewmodel.MarkerSlots(found) {
		if filled {
			b.WriteString(theme.StatusSuccess.Render("●"))
		} else {
			b.WriteString(theme.Faint.Render("○"))
		}
		b.WriteString(" ")
	}
	b.WriteString(fmt.Sprintf("%d/%d", found, model.MaxMarkers))
	return b.String()
}

// Card renders a labeled value.
func Card(theme themes.Theme, c viewmodel.MetricCard) string {
	value := theme.Text(c.Tone).Render(c.Value)
	if c.Tone == themes.ToneNeutral {
		value = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(c.Value)
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.Faint.Render(c.Label),
		value,
	))
}

// Cards renders cards side by side.
func Cards(theme themes.Theme, cards []viewmodel.MetricCard) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = Card(theme, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ErrorPanel renders an inline failure with its message.
func ErrorPanel(theme themes.Theme, title string, err error) string {
	return theme.BorderedBox.
		BorderForeground(theme.Error).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.StatusError.Render(title),
			theme.Normal.Render(err.Error()),
		))
}

// EmptyState renders a panel with a title, a message and a key hint.
func EmptyState(theme themes.Theme, title, message, hint string) string {
	return theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(title),
		theme.Subtitle.Render(message),
		theme.ButtonActive.Render(hint),
	))
}

// Button renders an action label, dimmed while busy.
func Button(theme themes.Theme, label string, focused, busy bool) string {
	switch {
	case busy:
		return theme.ButtonBusy.Render(label)
	case focused:
		return theme.ButtonActive.Render(label)
	default:
		return theme.Button.Render(label)
	}
}

// KeyHint renders "key action" pairs on one line.
func KeyHint(theme themes.Theme, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, theme.Bold.Render(pairs[i])+" "+theme.Faint.Render(pairs[i+1]))
	}
	return strings.Join(parts, theme.Faint.Render(" • "))
}
