package pages

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/tui/components"
)

var keyEditNotes = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "edit notes"))

type detailLoadedMsg struct {
	result model.VerificationResult
}

type notesSavedMsg struct {
	err error
}

func (m notesSavedMsg) report(n *notify.Notifier) {
	if m.err != nil {
		n.Error(m.err.Error())
		return
	}
	n.Success("Notes saved")
}

// Detail shows one verification result.
type Detail struct {
	env     Env
	err     error
	id      string
	notes   textinput.Model
	spinner spinner.Model
	result  model.VerificationResult
	state   loadState
	width   int
	height  int
	saving  bool
}

// NewDetail creates the detail page for the literal id from the location.
func NewDetail(env Env, id string) *Detail {
	notes := textinput.New()
	notes.Placeholder = "Add notes..."
	notes.Prompt = ""
	notes.CharLimit = 1024

	return &Detail{
		env:     env,
		id:      id,
		notes:   notes,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init fetches the result.
func (d *Detail) Init() tea.Cmd {
	client, id := d.env.Client, d.id
	return tea.Batch(d.spinner.Tick, d.env.Async(func(ctx context.Context) tea.Msg {
		r, err := client.GetResult(ctx, id)
		if err != nil {
			return failedMsg{err: err}
		}
		return detailLoadedMsg{result: r}
	}))
}

// Update handles messages.
func (d *Detail) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		d.state = stateReady
		d.result = msg.result
		d.notes.SetValue(msg.result.Notes)
		return d, nil

	case failedMsg:
		d.state = stateFailed
		d.err = msg.err
		return d, nil

	case notesSavedMsg:
		d.saving = false
		if msg.err == nil {
			d.result.Notes = d.notes.Value()
		}
		return d, nil

	case spinner.TickMsg:
		if d.state != stateLoading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		switch d.state {
		case stateReady:
			return d, d.handleKey(msg)
		case stateFailed:
			if key.Matches(msg, keyBack) {
				return d, Navigate("/results")
			}
		}
		return d, nil
	}

	if d.notes.Focused() {
		var cmd tea.Cmd
		d.notes, cmd = d.notes.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *Detail) handleKey(msg tea.KeyMsg) tea.Cmd {
	if d.notes.Focused() {
		switch {
		case msg.Type == tea.KeyEnter || key.Matches(msg, keySubmit):
			d.notes.Blur()
			return d.saveNotes()
		case msg.Type == tea.KeyEsc:
			d.notes.Blur()
			return nil
		}
		var cmd tea.Cmd
		d.notes, cmd = d.notes.Update(msg)
		return cmd
	}

	id := d.result.ID
	switch {
	case key.Matches(msg, keyEditNotes):
		return d.notes.Focus()
	case key.Matches(msg, keySubmit):
		return d.saveNotes()
	case key.Matches(msg, keyImageOriginal):
		d.env.Lightbox.Open(d.env.Client.URL(api.ResultImagePath(id, api.ImageOriginal)))
	case key.Matches(msg, keyImageCaptured):
		d.env.Lightbox.Open(d.env.Client.URL(api.ResultImagePath(id, api.ImageCaptured)))
	case key.Matches(msg, keyImageAligned):
		d.env.Lightbox.Open(d.env.Client.URL(api.ResultImagePath(id, api.ImageAligned)))
	case key.Matches(msg, keyBack):
		return Navigate("/results")
	}
	return nil
}

func (d *Detail) saveNotes() tea.Cmd {
	if d.saving {
		return nil
	}
	d.saving = true

	client, id, notes := d.env.Client, d.result.ID, d.notes.Value()
	return d.env.Action(func(ctx context.Context) tea.Msg {
		_, err := client.UpdateNotes(ctx, id, notes)
		return notesSavedMsg{err: err}
	})
}

// View renders the page.
func (d *Detail) View() string {
	theme := d.env.Theme

	switch d.state {
	case stateLoading:
		return d.spinner.View() + " Loading result..."
	case stateFailed:
		return lipgloss.JoinVertical(lipgloss.Left,
			components.ErrorPanel(theme, "Failed to load result", d.err),
			theme.Faint.Render("b back to results"),
		)
	}

	r := d.result
	barWidth := max(min(d.width-40, 60), 24)

	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(fmt.Sprintf("Verification #%d", r.ID))+"  "+components.Badge(theme, r.Verdict),
		theme.Faint.Render(r.CreatedAt.Display()),
	)

	info := []string{
		"Pattern    " + r.PatternReference(),
		"Markers    " + components.MarkerSlots(theme, r.MarkersFound),
		"Alignment  " + r.AlignmentMethod,
	}
	if r.PrintSizeMM != nil {
		info = append(info, fmt.Sprintf("Print size %dmm", *r.PrintSizeMM))
	}

	notesBox := theme.RoundedBox
	if d.notes.Focused() {
		notesBox = theme.FocusedBox
	}
	saveLabel := "ctrl+s save"
	if d.saving {
		saveLabel = "saving..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		components.Gauge(theme, r.Confidence, barWidth),
		"",
		theme.Bold.Render("Scores"),
		components.ScoreBars(theme, r.Scores, model.DisplayWeights, barWidth+28),
		"",
		lipgloss.JoinVertical(lipgloss.Left, info...),
		"",
		notesBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Bold.Render("Notes")+"  "+theme.Faint.Render(saveLabel),
			d.notes.View(),
		)),
		"",
		theme.Bold.Render("Images")+"  "+components.KeyHint(theme, "o", "Original", "c", "Captured", "a", "Aligned"),
	)
}

// SetSize records the page area.
func (d *Detail) SetSize(width, height int) {
	d.width, d.height = width, height
}

// InputFocused reports whether the notes field has focus.
func (d *Detail) InputFocused() bool {
	return d.notes.Focused()
}

// ShortHelp lists the page bindings.
func (d *Detail) ShortHelp() []key.Binding {
	if d.notes.Focused() {
		return []key.Binding{keySubmit}
	}
	return []key.Binding{keyEditNotes, keySubmit, keyImageOriginal, keyImageCaptured, keyImageAligned, keyBack}
}
