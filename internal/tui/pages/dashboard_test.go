package pages

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tuitest "github.com/Veraticus/phonecdp/internal/tui/testing"
)

const dashboardStats = `{"total_patterns":3,"total_verifications":12,"pass_rate":75,"avg_confidence":0.8123,
"verdicts":{"authentic":9,"suspicious":2,"counterfeit":1},"avg_scores":{"moire":0.8,"color":0.7,"correlation":0.9,"gradient":0.6}}`

const dashboardRecent = `{"results":[
{"id":7,"verdict":"AUTHENTIC","confidence":0.91,"pattern_serial":"SN-2025-00003","created_at":"2025-05-30T08:15:00"},
{"id":6,"verdict":"SUSPICIOUS","confidence":0.55,"pattern_label":"Batch B","created_at":"2025-05-29T17:40:00"}
],"total":12}`

func TestDashboard_JoinedFetch(t *testing.T) {
	var query string
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/results/stats": jsonBody(http.StatusOK, dashboardStats),
		"GET /api/results": func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			jsonBody(http.StatusOK, dashboardRecent)(w, r)
		},
	})

	var p Page = NewDashboard(f.env)
	assert.Contains(t, tuitest.Plain(p.View()), "Loading dashboard...")

	p, _ = settle(t, p, p.Init())
	assert.Equal(t, "limit=8", query)
	assert.ElementsMatch(t, []string{"GET /api/results/stats", "GET /api/results"}, f.requestLog())

	view := tuitest.Plain(p.View())
	assert.Contains(t, view, "Total Patterns")
	assert.Contains(t, view, "Total Verifications")
	assert.Contains(t, view, "75%")
	assert.Contains(t, view, "81%")
	assert.Contains(t, view, "SN-2025-00003")
	assert.Contains(t, view, "Batch B")
	assert.Contains(t, view, "91.0%")
}

func TestDashboard_EitherFailureShowsError(t *testing.T) {
	tests := []struct {
		name   string
		routes map[string]http.HandlerFunc
	}{
		{
			name: "stats fails",
			routes: map[string]http.HandlerFunc{
				"GET /api/results/stats": jsonBody(http.StatusInternalServerError, `{"detail":"stats unavailable"}`),
				"GET /api/results":       jsonBody(http.StatusOK, dashboardRecent),
			},
		},
		{
			name: "recent fails",
			routes: map[string]http.HandlerFunc{
				"GET /api/results/stats": jsonBody(http.StatusOK, dashboardStats),
				"GET /api/results":       jsonBody(http.StatusInternalServerError, `{"detail":"stats unavailable"}`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.routes)
			var p Page = NewDashboard(f.env)
			p, _ = settle(t, p, p.Init())

			view := tuitest.Plain(p.View())
			assert.Contains(t, view, "Failed to load dashboard")
			assert.Contains(t, view, "stats unavailable")
			assert.NotContains(t, view, "Recent Verifications")
		})
	}
}

func TestDashboard_Empty(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/results/stats": jsonBody(http.StatusOK, `{"verdicts":{}}`),
		"GET /api/results":       jsonBody(http.StatusOK, `{"results":[],"total":0}`),
	})

	var p Page = NewDashboard(f.env)
	p, _ = settle(t, p, p.Init())
	assert.Contains(t, tuitest.Plain(p.View()), "No verifications yet.")
}

func TestDashboard_Keys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want NavigateMsg
	}{
		{name: "generate", keys: []tea.KeyMsg{tuitest.KeyPress("g")}, want: NavigateMsg{Fragment: "/generate"}},
		{name: "verify", keys: []tea.KeyMsg{tuitest.KeyPress("v")}, want: NavigateMsg{Fragment: "/verify"}},
		{name: "results", keys: []tea.KeyMsg{tuitest.KeyPress("r")}, want: NavigateMsg{Fragment: "/results"}},
		{name: "open second row", keys: []tea.KeyMsg{tuitest.KeyDown(), tuitest.KeyEnter()}, want: NavigateMsg{Fragment: "/results/6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, map[string]http.HandlerFunc{
				"GET /api/results/stats": jsonBody(http.StatusOK, dashboardStats),
				"GET /api/results":       jsonBody(http.StatusOK, dashboardRecent),
			})
			var p Page = NewDashboard(f.env)
			p, _ = settle(t, p, p.Init())

			_, shell := press(t, p, tt.keys...)
			require.Len(t, shell, 1)
			assert.Equal(t, tt.want, shell[0])
		})
	}
}

func TestDashboard_ExportSavesFile(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/results/stats": jsonBody(http.StatusOK, dashboardStats),
		"GET /api/results":       jsonBody(http.StatusOK, dashboardRecent),
		"GET /api/results/export": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("id,verdict\n7,AUTHENTIC\n"))
		},
	})

	var p Page = NewDashboard(f.env)
	p, _ = settle(t, p, p.Init())
	_, shell := press(t, p, tuitest.KeyPress("x"))

	require.Len(t, shell, 1)
	saved, ok := shell[0].(SavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.Equal(t, int64(23), saved.Bytes)
	assert.Contains(t, saved.Path, "verification_results_20250601_120000.csv")

	saved.Report(f.env.Notifier)
	assert.Contains(t, f.env.Notifier.Current().Message, "Saved ")
	assert.Contains(t, f.env.Notifier.Current().Message, "(23 B)")
}
