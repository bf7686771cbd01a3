package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/pages"
)

// chromeHeight is the lines taken by the nav bar and the help bar.
const chromeHeight = 4

// Model is the application shell. It owns the location, the render
// generation and the current page.
type Model struct {
	env      pages.Env
	page     pages.Page
	recorder *Recorder
	location string
	help     help.Model
	keymap   KeyMap
	config   Config
	route    router.Route
	gen      uint64
	width    int
	height   int
	quitting bool
}

// newModel creates the shell and builds the page for the initial location.
func newModel(ctx context.Context, cfg Config) Model {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.New()
	}

	m := Model{
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		width:  cfg.Width,
		height: cfg.Height,
		env: pages.Env{
			Ctx:         ctx,
			Client:      cfg.Client,
			Notifier:    notifier,
			Lightbox:    components.NewLightbox(),
			Now:         cfg.Now,
			DownloadDir: cfg.DownloadDir,
			Theme:       cfg.Theme,
		},
	}
	m.help.Width = cfg.Width
	m.build(cfg.Route, pages.Hint{})
	return m
}

// Init starts the initial page.
func (m Model) Init() tea.Cmd {
	return m.page.Init()
}

// build replaces the current page with a fresh one for fragment under a new
// render generation.
func (m *Model) build(fragment string, hint pages.Hint) {
	m.location = router.Normalize(fragment)
	m.route = router.Resolve(m.location)
	m.gen++

	env := m.env
	env.Gen = m.gen
	m.page = pages.New(m.route, env, hint)
	m.page.SetSize(m.width, m.pageHeight())

	common.LogDebug("dispatch", common.Fields{
		"location": m.location,
		"page":     m.route.Page.String(),
		"gen":      m.gen,
	})
}

// dispatch builds the page for fragment and starts it.
func (m *Model) dispatch(fragment string, hint pages.Hint) tea.Cmd {
	m.env.Lightbox.Close()
	m.build(fragment, hint)
	return m.page.Init()
}

// Location returns the current location.
func (m Model) Location() string {
	return m.location
}

// Generation returns the current render generation.
func (m Model) Generation() uint64 {
	return m.gen
}

// Page returns the current page.
func (m Model) Page() pages.Page {
	return m.page
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if m.recorder != nil {
		m.recorder.RecordState(next, msg)
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.page.SetSize(m.width, m.pageHeight())
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}

	case pages.NavigateMsg:
		return m, m.dispatch(msg.Fragment, msg.Hint)

	case pages.RerenderMsg:
		return m, m.dispatch(m.location, pages.Hint{})

	case pages.ResultMsg:
		if msg.Gen != m.gen {
			common.LogDebug("dropping stale result", common.Fields{
				"gen":     msg.Gen,
				"current": m.gen,
				"type":    typeName(msg.Msg),
			})
			return m, nil
		}
		return m.forward(msg.Msg)

	case pages.SavedMsg:
		msg.Report(m.env.Notifier)
		return m, nil

	case notifyChangedMsg:
		return m, nil
	}

	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

// handleGlobalKeys handles keys that work on every page. Single-letter keys
// are left to the page while one of its inputs has focus.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return tea.Quit, true
	}

	if _, open := m.env.Lightbox.Current(); open {
		if key.Matches(msg, m.keymap.CloseOverlay) {
			m.env.Lightbox.Close()
		}
		return nil, true
	}

	if key.Matches(msg, m.keymap.Refresh) {
		return m.dispatch(m.location, pages.Hint{}), true
	}

	if m.page.InputFocused() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	}

	for i, b := range m.keymap.Pages {
		if key.Matches(msg, b) {
			return m.dispatch(router.NavItems[i].Fragment, pages.Hint{}), true
		}
	}
	return nil, false
}

func (m Model) pageHeight() int {
	return max(m.height-chromeHeight, 0)
}
