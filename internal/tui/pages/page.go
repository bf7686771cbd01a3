// Package pages holds the page controllers. Each page owns one render cycle:
// it shows a loading placeholder, fetches asynchronously, then renders the
// loaded view or an inline error. Key bindings and inputs live in the page
// model and disappear with it.
package pages

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/router"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Page is a page controller.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	SetSize(width, height int)
	// InputFocused reports whether a text input has focus, in which case
	// single-letter global keys must not fire.
	InputFocused() bool
	ShortHelp() []key.Binding
}

// Env is what every page is built with.
type Env struct {
	Ctx         context.Context
	Client      *api.Client
	Notifier    *notify.Notifier
	Lightbox    *components.Lightbox
	Now         func() time.Time
	DownloadDir string
	Theme       themes.Theme
	Gen         uint64
}

// ResultMsg carries an async page result tagged with the render generation
// of the page that started it. The shell drops envelopes from stale
// generations and hands Msg to the current page otherwise.
type ResultMsg struct {
	Msg tea.Msg
	Gen uint64
}

// NavigateMsg asks the shell to change location. Hint is handed to the
// page built for the new location.
type NavigateMsg struct {
	Fragment string
	Hint     Hint
}

// Hint carries optional state into a newly built page.
type Hint struct {
	// PatternID preselects a pattern on the verify page.
	PatternID int
}

// RerenderMsg asks the shell to rebuild the current page from scratch.
type RerenderMsg struct{}

// Navigate returns a command that changes location.
func Navigate(fragment string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Fragment: fragment} }
}

// Rerender returns a command that rebuilds the current page.
func Rerender() tea.Cmd {
	return func() tea.Msg { return RerenderMsg{} }
}

// Async runs f off the update loop and wraps its message in this page's
// generation.
func (e Env) Async(f func(ctx context.Context) tea.Msg) tea.Cmd {
	gen := e.Gen
	ctx := e.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		return ResultMsg{Gen: gen, Msg: f(ctx)}
	}
}

// reporter is a result whose notification must fire even when the page that
// started it is gone.
type reporter interface {
	report(n *notify.Notifier)
}

// Action is Async for requests that change server state. The outcome is
// notified before the envelope reaches the shell, so a stale generation
// drops only the render.
func (e Env) Action(f func(ctx context.Context) tea.Msg) tea.Cmd {
	n := e.Notifier
	return e.Async(func(ctx context.Context) tea.Msg {
		msg := f(ctx)
		if r, ok := msg.(reporter); ok && n != nil {
			r.report(n)
		}
		return msg
	})
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// New builds the page for route.
func New(route router.Route, env Env, hint Hint) Page {
	switch route.Page {
	case router.Generate:
		return NewGenerate(env)
	case router.Verify:
		return NewVerify(env, hint.PatternID)
	case router.Results:
		return NewResults(env)
	case router.Detail:
		return NewDetail(env, route.ID)
	default:
		return NewDashboard(env)
	}
}

// loadState is the render cycle of a page.
type loadState int

const (
	stateLoading loadState = iota
	stateReady
	stateFailed
)

// failedMsg reports that the page's initial fetch failed.
type failedMsg struct {
	err error
}
