package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
	"github.com/Veraticus/phonecdp/internal/workflow"
)

var (
	keyImageOriginal = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "original"))
	keyImageCaptured = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "captured"))
	keyImageAligned  = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "aligned"))
)

const (
	verSelector = iota
	verDrop
	verSize
	verNotes
	verSubmit
	verResults
)

type patternsLoadedMsg struct {
	patterns []model.Pattern
}

type verifiedMsg struct {
	outcome workflow.Outcome
	err     error
}

func (m verifiedMsg) report(n *notify.Notifier) {
	if m.err != nil {
		n.Error(m.err.Error())
		return
	}
	n.Success("Verification complete!")
}

// Verify submits captured photos against a pattern.
type Verify struct {
	env        Env
	outcome    workflow.Outcome
	err        error
	resultErr  error
	dropzone   components.Dropzone
	patterns   []model.Pattern
	batch      viewmodel.BatchView
	size       textinput.Model
	notes      textinput.Model
	spinner    spinner.Model
	state      loadState
	preselect  int
	selected   int
	focus      int
	cursor     int
	width      int
	height     int
	busy       bool
}

// NewVerify creates the verify page. A non-zero patternID is selected once
// the pattern list arrives.
func NewVerify(env Env, patternID int) *Verify {
	size := textinput.New()
	size.Placeholder = "e.g. 65"
	size.Prompt = ""
	size.CharLimit = 6
	size.Validate = func(s string) error {
		if strings.Trim(s, "0123456789") != "" {
			return common.ErrInvalidSize
		}
		return nil
	}

	notes := textinput.New()
	notes.Placeholder = "Optional"
	notes.Prompt = ""
	notes.CharLimit = 1024

	return &Verify{
		env:       env,
		preselect: patternID,
		dropzone:  components.NewDropzone(env.Theme),
		size:      size,
		notes:     notes,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init fetches the pattern list.
func (v *Verify) Init() tea.Cmd {
	client := v.env.Client
	return tea.Batch(v.spinner.Tick, v.env.Async(func(ctx context.Context) tea.Msg {
		patterns, err := client.ListPatterns(ctx)
		if err != nil {
			return failedMsg{err: err}
		}
		return patternsLoadedMsg{patterns: patterns}
	}))
}

// Selection returns the current workflow input.
func (v *Verify) Selection() workflow.Selection {
	sel := workflow.Selection{
		Files: v.dropzone.Files(),
		Notes: v.notes.Value(),
	}
	if v.selected < len(v.patterns) {
		sel.PatternID = v.patterns[v.selected].ID
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.size.Value())); err == nil && n > 0 {
		sel.PrintSizeMM = &n
	}
	return sel
}

// Update handles messages.
func (v *Verify) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case patternsLoadedMsg:
		v.patterns = msg.patterns
		v.state = stateReady
		if i := lo.IndexOf(lo.Map(v.patterns, func(p model.Pattern, _ int) int { return p.ID }), v.preselect); i >= 0 {
			v.selected = i
		}
		return v, nil

	case failedMsg:
		v.state = stateFailed
		v.err = msg.err
		return v, nil

	case verifiedMsg:
		v.finishSubmit(msg)
		return v, nil

	case spinner.TickMsg:
		if v.state != stateLoading && !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.state != stateReady {
			return v, nil
		}
		if len(v.patterns) == 0 {
			if key.Matches(msg, keyGoGenerate) {
				return v, Navigate("/generate")
			}
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, v.updateFocused(msg)
}

func (v *Verify) handleKey(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch {
	case key.Matches(msg, keySubmit):
		return v, v.submit()
	case key.Matches(msg, keyNext):
		return v, v.setFocus(v.focus + 1)
	case key.Matches(msg, keyPrev):
		return v, v.setFocus(v.focus - 1)
	}

	switch v.focus {
	case verSelector:
		switch {
		case key.Matches(msg, keyUp):
			if v.selected > 0 {
				v.selected--
			}
		case key.Matches(msg, keyDown):
			if v.selected < len(v.patterns)-1 {
				v.selected++
			}
		case key.Matches(msg, keyPreview):
			v.env.Lightbox.Open(v.previewURL())
		case key.Matches(msg, keyOpen):
			return v, v.setFocus(verDrop)
		}
		return v, nil

	case verDrop:
		if msg.Type == tea.KeyEsc {
			return v, v.setFocus(verSubmit)
		}
		dropped, skipped, cmd := v.dropzone.Update(msg)
		if dropped && len(skipped) > 0 {
			v.env.Notifier.Info(skippedMessage(skipped))
		}
		return v, cmd

	case verSize, verNotes:
		switch msg.Type {
		case tea.KeyEnter:
			return v, v.setFocus(v.focus + 1)
		case tea.KeyEsc:
			return v, v.setFocus(verSubmit)
		}
		return v, v.updateFocused(msg)

	case verSubmit:
		if key.Matches(msg, keyOpen) {
			return v, v.submit()
		}

	case verResults:
		return v, v.handleResultKey(msg)
	}
	return v, nil
}

func (v *Verify) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	switch out := v.outcome.(type) {
	case workflow.Single:
		switch {
		case key.Matches(msg, keyOpen):
			return Navigate(router.DetailFragment(out.Result.ID))
		case key.Matches(msg, keyImageOriginal):
			v.env.Lightbox.Open(v.env.Client.URL(api.ResultImagePath(out.Result.ID, api.ImageOriginal)))
		case key.Matches(msg, keyImageCaptured):
			v.env.Lightbox.Open(v.env.Client.URL(api.ResultImagePath(out.Result.ID, api.ImageCaptured)))
		case key.Matches(msg, keyImageAligned):
			v.env.Lightbox.Open(v.env.Client.URL(api.ResultImagePath(out.Result.ID, api.ImageAligned)))
		}
	case workflow.Batch:
		switch {
		case key.Matches(msg, keyUp):
			v.cursor = v.batch.NextSelectable(v.cursor, -1)
		case key.Matches(msg, keyDown):
			v.cursor = v.batch.NextSelectable(v.cursor, 1)
		case key.Matches(msg, keyOpen):
			if v.cursor >= 0 && v.cursor < len(v.batch.Rows) && v.batch.Rows[v.cursor].Selectable {
				return Navigate(router.DetailFragment(v.batch.Rows[v.cursor].ResultID))
			}
		}
	}
	return nil
}

func (v *Verify) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case verSize:
		v.size, cmd = v.size.Update(msg)
	case verNotes:
		v.notes, cmd = v.notes.Update(msg)
	}
	return cmd
}

func (v *Verify) setFocus(i int) tea.Cmd {
	last := verSubmit
	if v.outcome != nil {
		last = verResults
	}
	if i < 0 {
		i = last
	}
	if i > last {
		i = 0
	}

	v.dropzone.Blur()
	v.size.Blur()
	v.notes.Blur()
	v.focus = i

	switch i {
	case verDrop:
		return v.dropzone.Focus()
	case verSize:
		return v.size.Focus()
	case verNotes:
		return v.notes.Focus()
	}
	return nil
}

// submit dispatches the workflow. It is a no-op while busy or with no files.
func (v *Verify) submit() tea.Cmd {
	sel := v.Selection()
	if v.busy || !sel.CanSubmit() {
		return nil
	}
	if raw := strings.TrimSpace(v.size.Value()); raw != "" && sel.PrintSizeMM == nil {
		v.env.Notifier.Error(common.ErrInvalidSize.Error())
		return nil
	}

	v.busy = true
	v.outcome = nil
	v.resultErr = nil
	if v.focus == verResults {
		v.focus = verSubmit
	}

	client := v.env.Client
	return tea.Batch(v.spinner.Tick, v.env.Action(func(ctx context.Context) tea.Msg {
		out, err := workflow.Submit(ctx, client, sel)
		return verifiedMsg{outcome: out, err: err}
	}))
}

// finishSubmit renders the outcome. The submit control is restored whatever
// happened.
func (v *Verify) finishSubmit(msg verifiedMsg) {
	defer func() { v.busy = false }()

	if msg.err != nil {
		v.resultErr = msg.err
		return
	}

	v.outcome = msg.outcome
	if batch, ok := msg.outcome.(workflow.Batch); ok {
		v.batch = viewmodel.NewBatchView(batch.Items)
		v.cursor = v.batch.FirstSelectable()
	}
}

func (v *Verify) previewURL() string {
	if v.selected >= len(v.patterns) {
		return ""
	}
	return v.env.Client.URL(api.PatternPreviewPath(v.patterns[v.selected].ID))
}

func skippedMessage(skipped []workflow.Skipped) string {
	parts := lo.Map(skipped, func(s workflow.Skipped, _ int) string {
		return fmt.Sprintf("%s (%s)", s.Path, s.Reason)
	})
	return fmt.Sprintf("Skipped %d: %s", len(skipped), strings.Join(parts, ", "))
}

// View renders the page.
func (v *Verify) View() string {
	theme := v.env.Theme
	header := theme.Title.Render("Verify Pattern")

	switch v.state {
	case stateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, header, v.spinner.View()+" Loading patterns...")
	case stateFailed:
		return lipgloss.JoinVertical(lipgloss.Left, header, components.ErrorPanel(theme, "Failed to load patterns", v.err))
	}

	if len(v.patterns) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			components.EmptyState(theme, "No Patterns Found", "Generate a pattern first.", "g Generate"),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		theme.Subtitle.Render("Upload a phone photo to verify against the original"),
		lipgloss.JoinHorizontal(lipgloss.Top, v.formView(), " ", v.resultsView()),
	)
}

func (v *Verify) section(n int, title string, focused bool, body ...string) string {
	theme := v.env.Theme
	style := theme.RoundedBox.Width(44)
	if focused {
		style = theme.FocusedBox.Width(44)
	}
	head := theme.ButtonActive.Render(strconv.Itoa(n)) + " " + theme.Bold.Render(title)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{head}, body...)...))
}

func (v *Verify) formView() string {
	theme := v.env.Theme

	options := make([]string, len(v.patterns))
	for i, p := range v.patterns {
		line := fmt.Sprintf("%s (Seed: %d)", p.DisplayName(), p.Seed)
		if i == v.selected {
			line = theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		options[i] = line
	}
	selector := v.section(1, "Select Pattern", v.focus == verSelector,
		append(options, theme.Faint.Render("preview: "+v.previewURL()))...)

	v.dropzone.SetWidth(44)
	drop := v.section(2, "Upload Photo", v.focus == verDrop, v.dropzone.View())

	options3 := v.section(3, "Options", v.focus == verSize || v.focus == verNotes,
		theme.Faint.Render("Print Size (mm)"), v.size.View(),
		theme.Faint.Render("Notes"), v.notes.View(),
	)

	label := "Verify"
	if v.busy {
		label = v.spinner.View() + " Verifying..."
	}
	var btn string
	if !v.Selection().CanSubmit() && !v.busy {
		btn = theme.ButtonBusy.Render(label)
	} else {
		btn = components.Button(theme, label, v.focus == verSubmit, v.busy)
	}

	return lipgloss.JoinVertical(lipgloss.Left, selector, drop, options3, btn)
}

func (v *Verify) resultsView() string {
	theme := v.env.Theme
	box := theme.RoundedBox
	if v.focus == verResults {
		box = theme.FocusedBox
	}
	if v.width > 50 {
		box = box.Width(max(v.width-50, 30))
	}
	barWidth := max(v.width-60, 24)

	if v.busy {
		return box.Render(theme.Bold.Render("Results") + "\n\n" + v.spinner.View() + " Running verification...")
	}
	if v.resultErr != nil {
		return box.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Bold.Render("Results"),
			"",
			theme.StatusError.Render(v.resultErr.Error()),
		))
	}

	switch out := v.outcome.(type) {
	case workflow.Single:
		r := out.Result
		return box.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Bold.Render("Result")+"  "+components.Badge(theme, r.Verdict)+"  "+theme.Faint.Render("enter Details"),
			theme.Faint.Render(r.CreatedAt.Display()),
			"",
			components.Gauge(theme, r.Confidence, barWidth),
			"",
			theme.Bold.Render("Scores"),
			components.ScoreBars(theme, r.Scores, viewmodel.RecordWeights(r), barWidth+28),
			"",
			"Markers    "+components.MarkerSlots(theme, r.MarkersFound),
			"Alignment  "+r.AlignmentMethod,
			"",
			theme.Bold.Render("Images")+"  "+components.KeyHint(theme, "o", "Original", "c", "Captured", "a", "Aligned"),
		))

	case workflow.Batch:
		lines := []string{
			theme.Bold.Render("Batch Results") + "  " +
				theme.Text(v.batch.SummaryTone()).Render(v.batch.Summary()) + " " + theme.Faint.Render("Passed"),
			theme.Faint.Render(fmt.Sprintf("%d photos", v.batch.Total)),
			"",
		}
		for i, row := range v.batch.Rows {
			detail := theme.Faint.Render(row.Detail)
			if !row.Selectable {
				detail = theme.StatusError.Render(row.Detail)
			}
			line := fmt.Sprintf("%-28s %s  %s", row.Filename, components.Badge(theme, row.Verdict), detail)
			if v.focus == verResults && i == v.cursor && row.Selectable {
				line = "> " + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("Results"),
		"",
		theme.Faint.Render("Upload a photo to see results"),
	))
}

// SetSize records the page area.
func (v *Verify) SetSize(width, height int) {
	v.width, v.height = width, height
}

// InputFocused reports whether a text field or the dropzone has focus.
func (v *Verify) InputFocused() bool {
	if v.state != stateReady || len(v.patterns) == 0 {
		return false
	}
	return v.focus == verDrop || v.focus == verSize || v.focus == verNotes
}

// ShortHelp lists the page bindings.
func (v *Verify) ShortHelp() []key.Binding {
	if v.state == stateReady && len(v.patterns) == 0 {
		return []key.Binding{keyGoGenerate}
	}
	bindings := []key.Binding{keyNext, keyPrev, keySubmit}
	if v.focus == verSelector {
		bindings = append(bindings, keyPreview)
	}
	if _, ok := v.outcome.(workflow.Single); ok && v.focus == verResults {
		bindings = append(bindings, keyOpen, keyImageOriginal, keyImageCaptured, keyImageAligned)
	}
	return bindings
}
