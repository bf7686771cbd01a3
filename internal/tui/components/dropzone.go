package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/phonecdp/internal/tui/themes"
	"github.com/Veraticus/phonecdp/internal/workflow"
)

// PendingFile is a selected photo.
type PendingFile struct {
	Path string
	Size int64
}

// Dropzone collects photo paths. Files dropped onto the terminal arrive as a
// bracketed paste; typed paths and globs are taken on enter. Either replaces
// the pending list.
type Dropzone struct {
	theme   themes.Theme
	input   textinput.Model
	files   []PendingFile
	width   int
	focused bool
}

// NewDropzone creates an empty dropzone.
func NewDropzone(theme themes.Theme) Dropzone {
	ti := textinput.New()
	ti.Placeholder = "drop photos here or type paths / globs, then enter"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	return Dropzone{theme: theme, input: ti}
}

// Focus turns the highlight on.
func (d *Dropzone) Focus() tea.Cmd {
	d.focused = true
	return d.input.Focus()
}

// Blur turns the highlight off.
func (d *Dropzone) Blur() {
	d.focused = false
	d.input.Blur()
}

// Focused reports whether the dropzone is highlighted.
func (d *Dropzone) Focused() bool {
	return d.focused
}

// SetWidth sets the render width.
func (d *Dropzone) SetWidth(w int) {
	d.width = w
	d.input.Width = max(w-8, 10)
}

// Files returns the pending paths in selection order.
func (d *Dropzone) Files() []string {
	out := make([]string, len(d.files))
	for i, f := range d.files {
		out[i] = f.Path
	}
	return out
}

// Drop replaces the pending list with the images found in input and returns
// what was skipped.
func (d *Dropzone) Drop(input string) []workflow.Skipped {
	paths, skipped := workflow.SelectFiles(input)
	d.files = d.files[:0]
	for _, p := range paths {
		var size int64
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		d.files = append(d.files, PendingFile{Path: p, Size: size})
	}
	d.input.Reset()
	return skipped
}

// Update handles key input while focused. dropped is true when the pending
// list was replaced; skipped lists rejected inputs.
func (d *Dropzone) Update(msg tea.Msg) (dropped bool, skipped []workflow.Skipped, cmd tea.Cmd) {
	if !d.focused {
		return false, nil, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Paste:
			return true, d.Drop(string(key.Runes)), nil
		case key.Type == tea.KeyEnter:
			if strings.TrimSpace(d.input.Value()) == "" {
				return false, nil, nil
			}
			return true, d.Drop(d.input.Value()), nil
		}
	}
	d.input, cmd = d.input.Update(msg)
	return false, nil, cmd
}

// View renders the drop target and the pending list.
func (d *Dropzone) View() string {
	style := d.theme.RoundedBox
	if d.focused {
		style = d.theme.FocusedBox
	}
	if d.width > 0 {
		style = style.Width(d.width - 2)
	}

	lines := []string{d.theme.Bold.Render("Photos"), d.input.View()}
	if len(d.files) == 0 {
		lines = append(lines, d.theme.Faint.Render("No files selected"))
	} else {
		for _, f := range d.files {
			lines = append(lines, fmt.Sprintf("%s  %s",
				d.theme.Normal.Render(filepath.Base(f.Path)),
				d.theme.Faint.Render(humanize.Bytes(uint64(max(f.Size, 0)))),
			))
		}
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
