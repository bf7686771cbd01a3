package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyPress creates a key press message for testing.
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// KeyDown creates a down arrow key message.
func KeyDown() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyDown}
}

// KeyUp creates an up arrow key message.
func KeyUp() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyUp}
}

// KeyEnter creates an enter key message.
func KeyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// KeyEsc creates an escape key message.
func KeyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

// KeyTab creates a tab key message.
func KeyTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyTab}
}

// KeyShiftTab creates a shift+tab key message.
func KeyShiftTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyShiftTab}
}

// KeyCtrlC creates a ctrl+c key message.
func KeyCtrlC() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlC}
}

// KeyCtrlR creates a ctrl+r key message.
func KeyCtrlR() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlR}
}

// KeyCtrlS creates a ctrl+s key message.
func KeyCtrlS() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlS}
}

// Paste creates a bracketed paste message, which is how terminals deliver
// dropped files.
func Paste(text string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(text),
		Paste: true,
	}
}

// Type returns one key message per rune of text.
func Type(text string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

// WindowSize creates a window size message for testing responsive layouts.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}
