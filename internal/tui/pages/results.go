package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

// ResultsLimit is how many results the list fetches.
const ResultsLimit = 100

var (
	keyFilterNext = key.NewBinding(key.WithKeys("f", "right", "l"), key.WithHelp("f/→", "next filter"))
	keyFilterPrev = key.NewBinding(key.WithKeys("F", "left", "h"), key.WithHelp("F/←", "prev filter"))
	keyDelete     = key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete"))
	keyConfirm    = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm"))
)

type resultsLoadedMsg struct {
	list model.ResultList
}

type deletedMsg struct {
	err error
	id  int
}

func (m deletedMsg) report(n *notify.Notifier) {
	if m.err != nil {
		n.Error(m.err.Error())
		return
	}
	n.Success("Deleted")
}

// Results lists stored verifications with a client-side verdict filter.
type Results struct {
	env      Env
	err      error
	rows     []model.VerificationResult
	spinner  spinner.Model
	filter   viewmodel.Filter
	state    loadState
	total    int
	cursor   int
	confirm  int
	width    int
	height   int
	deleting bool
}

// NewResults creates the results page.
func NewResults(env Env) *Results {
	return &Results{
		env:     env,
		filter:  viewmodel.FilterAll,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init fetches the list.
func (r *Results) Init() tea.Cmd {
	client := r.env.Client
	return tea.Batch(r.spinner.Tick, r.env.Async(func(ctx context.Context) tea.Msg {
		list, err := client.ListResults(ctx, api.ResultQuery{Limit: ResultsLimit})
		if err != nil {
			return failedMsg{err: err}
		}
		return resultsLoadedMsg{list: list}
	}))
}

// Filter returns the active filter.
func (r *Results) Filter() viewmodel.Filter {
	return r.filter
}

// Visible returns the rows shown under the active filter.
func (r *Results) Visible() []model.VerificationResult {
	idx := r.filter.Visible(r.rows)
	out := make([]model.VerificationResult, len(idx))
	for i, j := range idx {
		out[i] = r.rows[j]
	}
	return out
}

// SetFilter changes the active filter. It never fetches.
func (r *Results) SetFilter(f viewmodel.Filter) {
	r.filter = f
	r.cursor = 0
	r.confirm = 0
}

// Update handles messages.
func (r *Results) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		r.state = stateReady
		r.rows = msg.list.Results
		r.total = msg.list.Total
		return r, nil

	case failedMsg:
		r.state = stateFailed
		r.err = msg.err
		return r, nil

	case deletedMsg:
		r.deleting = false
		if msg.err != nil {
			return r, nil
		}
		return r, Rerender()

	case spinner.TickMsg:
		if r.state != stateLoading {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		if r.state != stateReady {
			return r, nil
		}
		if r.confirm != 0 {
			return r, r.handleConfirm(msg)
		}
		return r, r.handleKey(msg)
	}
	return r, nil
}

func (r *Results) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	id := r.confirm
	r.confirm = 0
	if !key.Matches(msg, keyConfirm) {
		return nil
	}

	r.deleting = true
	client := r.env.Client
	return r.env.Action(func(ctx context.Context) tea.Msg {
		return deletedMsg{id: id, err: client.DeleteResult(ctx, id)}
	})
}

func (r *Results) handleKey(msg tea.KeyMsg) tea.Cmd {
	visible := r.Visible()

	switch {
	case key.Matches(msg, keyFilterNext):
		r.SetFilter(r.filter.Next())
	case key.Matches(msg, keyFilterPrev):
		r.SetFilter(r.filter.Prev())
	case key.Matches(msg, keyExport):
		return r.env.exportCSV()
	case key.Matches(msg, keyGoVerify):
		if len(r.rows) == 0 {
			return Navigate("/verify")
		}
	case key.Matches(msg, keyUp):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keyDown):
		if r.cursor < len(visible)-1 {
			r.cursor++
		}
	case key.Matches(msg, keyOpen):
		if r.cursor < len(visible) {
			return Navigate(router.DetailFragment(visible[r.cursor].ID))
		}
	case key.Matches(msg, keyDelete):
		if r.cursor < len(visible) && !r.deleting {
			r.confirm = visible[r.cursor].ID
		}
	}
	return nil
}

// View renders the page.
func (r *Results) View() string {
	theme := r.env.Theme

	switch r.state {
	case stateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, theme.Title.Render("Results"), r.spinner.View()+" Loading results...")
	case stateFailed:
		return lipgloss.JoinVertical(lipgloss.Left, theme.Title.Render("Results"), components.ErrorPanel(theme, "Failed to load results", r.err))
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Results"),
		theme.Subtitle.Render(fmt.Sprintf("%d total verifications", r.total)),
	)

	if len(r.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			components.EmptyState(theme, "No Results", "Nothing has been verified yet.", "v Verify a Photo"))
	}

	filters := make([]string, len(viewmodel.Filters))
	for i, f := range viewmodel.Filters {
		label := string(f)
		if f == viewmodel.FilterAll {
			label = "All"
		}
		filters[i] = components.Button(theme, label, f == r.filter, false)
	}

	visible := r.Visible()
	rows := make([][]string, len(visible))
	for i, res := range visible {
		pattern := res.PatternReference()
		if res.Notes != "" {
			pattern += " " + theme.Faint.Render(truncate(res.Notes, 20))
		}
		rows[i] = []string{
			res.CreatedAt.Display(),
			pattern,
			components.Badge(theme, res.Verdict),
			viewmodel.ConfidenceText(res.Confidence),
			fmt.Sprintf("%d/%d", res.MarkersFound, model.MaxMarkers),
			res.AlignmentMethod,
			viewmodel.PrintSizeText(res.PrintSizeMM),
		}
	}

	sections := []string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, filters...),
		components.Table(theme, []string{"Date", "Pattern", "Verdict", "Confidence", "Markers", "Alignment", "mm"}, rows, r.cursor, 0),
	}
	if r.confirm != 0 {
		sections = append(sections, theme.StatusWarning.Render("Delete result #"+strconv.Itoa(r.confirm)+"? (y/n)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// SetSize records the page area.
func (r *Results) SetSize(width, height int) {
	r.width, r.height = width, height
}

// InputFocused reports whether a delete confirmation is pending, so that the
// answer is not taken as a global key.
func (r *Results) InputFocused() bool {
	return r.confirm != 0
}

// ShortHelp lists the page bindings.
func (r *Results) ShortHelp() []key.Binding {
	if r.confirm != 0 {
		return []key.Binding{keyConfirm}
	}
	return []key.Binding{keyFilterNext, keyFilterPrev, keyOpen, keyDelete, keyExport}
}
