package pages

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

var (
	keyGoGenerate = key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate"))
	keyGoVerify   = key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verify"))
	keyGoResults  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "all results"))
)

type dashboardLoadedMsg struct {
	recent []model.VerificationResult
	stats  model.Stats
}

// Dashboard shows aggregate stats and the most recent verifications.
type Dashboard struct {
	err     error
	env     Env
	recent  []model.VerificationResult
	spinner spinner.Model
	stats   model.Stats
	state   loadState
	cursor  int
	width   int
	height  int
}

// NewDashboard creates the dashboard page.
func NewDashboard(env Env) *Dashboard {
	return &Dashboard{env: env, spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// Init starts the joined fetch.
func (d *Dashboard) Init() tea.Cmd {
	client := d.env.Client
	return tea.Batch(d.spinner.Tick, d.env.Async(func(ctx context.Context) tea.Msg {
		var msg dashboardLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			s, err := client.Stats(gctx)
			msg.stats = s
			return err
		})
		g.Go(func() error {
			list, err := client.ListResults(gctx, api.ResultQuery{Limit: viewmodel.RecentLimit})
			msg.recent = list.Results
			return err
		})
		if err := g.Wait(); err != nil {
			return failedMsg{err: err}
		}
		return msg
	}))
}

// Update handles messages.
func (d *Dashboard) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		d.state = stateReady
		d.stats = msg.stats
		d.recent = msg.recent
		return d, nil

	case failedMsg:
		d.state = stateFailed
		d.err = msg.err
		return d, nil

	case spinner.TickMsg:
		if d.state != stateLoading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		if d.state != stateReady {
			return d, nil
		}
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch {
	case key.Matches(msg, keyGoGenerate):
		return d, Navigate("/generate")
	case key.Matches(msg, keyGoVerify):
		return d, Navigate("/verify")
	case key.Matches(msg, keyGoResults):
		return d, Navigate("/results")
	case key.Matches(msg, keyExport):
		return d, d.env.exportCSV()
	case key.Matches(msg, keyUp):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keyDown):
		if d.cursor < len(d.recent)-1 {
			d.cursor++
		}
	case key.Matches(msg, keyOpen):
		if d.cursor < len(d.recent) {
			return d, Navigate(router.DetailFragment(d.recent[d.cursor].ID))
		}
	}
	return d, nil
}

// View renders the page.
func (d *Dashboard) View() string {
	theme := d.env.Theme
	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Dashboard"),
		theme.Subtitle.Render("Copy Detection Pattern verification overview"),
	)

	switch d.state {
	case stateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, header, "", d.spinner.View()+" Loading dashboard...")
	case stateFailed:
		return lipgloss.JoinVertical(lipgloss.Left, header, "", components.ErrorPanel(theme, "Failed to load dashboard", d.err))
	}

	actions := lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("Quick Actions"),
		components.KeyHint(theme, "g", "Generate New Pattern", "v", "Verify a Photo", "x", "Export CSV", "r", "View all"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		components.Cards(theme, viewmodel.MetricCards(d.stats)),
		components.Cards(theme, viewmodel.VerdictCards(d.stats)),
		"",
		actions,
		"",
		theme.Bold.Render("Recent Verifications"),
		d.recentView(),
	)
}

func (d *Dashboard) recentView() string {
	theme := d.env.Theme
	if len(d.recent) == 0 {
		return theme.Faint.Render("No verifications yet.")
	}

	rows := make([][]string, len(d.recent))
	for i, r := range d.recent {
		rows[i] = []string{
			r.CreatedAt.Display(),
			r.PatternReference(),
			components.Badge(theme, r.Verdict),
			viewmodel.ConfidenceText(r.Confidence),
		}
	}
	return components.Table(theme, []string{"Date", "Pattern", "Verdict", "Confidence"}, rows, d.cursor, 0)
}

// SetSize records the page area.
func (d *Dashboard) SetSize(width, height int) {
	d.width, d.height = width, height
}

// InputFocused is always false; the dashboard has no inputs.
func (d *Dashboard) InputFocused() bool { return false }

// ShortHelp lists the page bindings.
func (d *Dashboard) ShortHelp() []key.Binding {
	return []key.Binding{keyGoGenerate, keyGoVerify, keyGoResults, keyExport, keyOpen}
}
