package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	tuitest "github.com/Veraticus/phonecdp/internal/tui/testing"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

// fixture is a page environment backed by an httptest server that records
// every request it receives.
type fixture struct {
	env      Env
	requests []string
	mu       sync.Mutex
}

func newFixture(t *testing.T, routes map[string]http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}))
	t.Cleanup(server.Close)

	f.env = Env{
		Ctx:    context.Background(),
		Client: api.NewClient(server.URL),
		Notifier: notify.New(notify.WithScheduler(func(time.Duration, func()) notify.Timer {
			return stubTimer{}
		})),
		Lightbox:    components.NewLightbox(),
		Theme:       themes.Default,
		Gen:         1,
		DownloadDir: t.TempDir(),
		Now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *fixture) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func jsonBody(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// settle runs cmd and feeds every page result back into p until no more
// results arrive. Messages addressed to the shell are returned.
func settle(t *testing.T, p Page, cmd tea.Cmd) (Page, []tea.Msg) {
	t.Helper()
	var forShell []tea.Msg
	queue := []tea.Cmd{cmd}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, msg := range tuitest.Drain(next) {
			switch m := msg.(type) {
			case ResultMsg:
				var c tea.Cmd
				p, c = p.Update(m.Msg)
				if c != nil {
					queue = append(queue, c)
				}
			case NavigateMsg, RerenderMsg, SavedMsg:
				forShell = append(forShell, m)
			}
		}
	}
	return p, forShell
}

// press sends key messages and settles any page result they trigger.
func press(t *testing.T, p Page, keys ...tea.KeyMsg) (Page, []tea.Msg) {
	t.Helper()
	var forShell []tea.Msg
	for _, k := range keys {
		var cmd tea.Cmd
		p, cmd = p.Update(k)
		if k.Type == tea.KeyTab || k.Type == tea.KeyShiftTab {
			// Focus changes only start cursor blinking.
			continue
		}
		var msgs []tea.Msg
		p, msgs = settle(t, p, cmd)
		forShell = append(forShell, msgs...)
	}
	return p, forShell
}

func writeImages(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(paths[i], []byte("img"), 0o600))
	}
	return paths
}

// typeText feeds text into the focused input, one rune at a time.
func typeText(p Page, text string) Page {
	for _, msg := range tuitest.Type(text) {
		p, _ = p.Update(msg)
	}
	return p
}
