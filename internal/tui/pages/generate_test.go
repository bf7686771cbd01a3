package pages

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/notify"
	tuitest "github.com/Veraticus/phonecdp/internal/tui/testing"
)

const generatedPattern = `{"id":9,"seed":4242,"serial_number":"SN-2025-00002","label":"Batch C","pattern_size":256,"created_at":"2025-06-01T12:00:00"}`

func TestGenerate_GalleryFailureStillShowsForm(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns": jsonBody(http.StatusInternalServerError, `{"detail":"boom"}`),
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())

	view := tuitest.Plain(p.View())
	assert.Contains(t, view, "SN-2025-00001")
	assert.Contains(t, view, "Generate Pattern")
	assert.NotContains(t, view, "Gallery")
	assert.False(t, p.InputFocused())
}

func TestGenerate_DefaultSerialCountsGallery(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns": jsonBody(http.StatusOK, onePattern),
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())

	view := tuitest.Plain(p.View())
	assert.Contains(t, view, "SN-2025-00002")
	assert.Contains(t, view, "Gallery (1)")
}

func TestGenerate_InvalidSeedSendsNothing(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns": jsonBody(http.StatusOK, `[]`),
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())

	p, _ = press(t, p, tuitest.KeyShiftTab(), tuitest.KeyShiftTab())
	require.True(t, p.InputFocused())
	p = typeText(p, "12ab")

	_, shell := press(t, p, tuitest.KeyCtrlS())
	assert.Empty(t, shell)
	assert.Equal(t, []string{"GET /api/patterns"}, f.requestLog())

	n := f.env.Notifier.Current()
	assert.Equal(t, common.ErrInvalidSeed.Error(), n.Message)
	assert.Equal(t, notify.KindError, n.Kind)
}

func TestGenerate_SubmitAndVerifyThis(t *testing.T) {
	var sent map[string]any
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns": jsonBody(http.StatusOK, onePattern),
		"POST /api/patterns/generate": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&sent)
			jsonBody(http.StatusOK, generatedPattern)(w, r)
		},
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())

	p, _ = press(t, p, tuitest.KeyShiftTab(), tuitest.KeyShiftTab())
	p = typeText(p, "4242")
	p, _ = press(t, p, tuitest.KeyEsc())
	require.False(t, p.InputFocused())

	p, shell := press(t, p, tuitest.KeyEnter())
	assert.Empty(t, shell)

	require.NotNil(t, sent)
	assert.Equal(t, "SN-2025-00002", sent["serial_number"])
	assert.InDelta(t, 4242, sent["seed"], 0)

	assert.Equal(t, "Pattern generated!", f.env.Notifier.Current().Message)
	view := tuitest.Plain(p.View())
	assert.Contains(t, view, "Generated Pattern")
	assert.Contains(t, view, "Gallery (2)")
	assert.Contains(t, view, "/api/patterns/9/preview")

	_, shell = press(t, p, tuitest.KeyPress("v"))
	require.Len(t, shell, 1)
	assert.Equal(t, NavigateMsg{Fragment: "/verify", Hint: Hint{PatternID: 9}}, shell[0])
}

func TestGenerate_ServerErrorRestoresButton(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns":           jsonBody(http.StatusOK, `[]`),
		"POST /api/patterns/generate": jsonBody(http.StatusConflict, `{"detail":"serial number already exists"}`),
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())
	p, _ = press(t, p, tuitest.KeyCtrlS())

	assert.Equal(t, "serial number already exists", f.env.Notifier.Current().Message)
	view := tuitest.Plain(p.View())
	assert.NotContains(t, view, "Generating...")
	assert.Contains(t, view, "Generate a pattern to see the preview")
}

func TestGenerate_DownloadMenu(t *testing.T) {
	tests := []struct {
		name     string
		keys     int
		wantFile string
		wantPath string
	}{
		{name: "png", keys: 0, wantFile: "SN-2025-00002.png", wantPath: "/api/patterns/9/download"},
		{name: "pdf 15mm", keys: 1, wantFile: "SN-2025-00002_15mm.pdf", wantPath: "/api/patterns/9/pdf"},
		{name: "pdf 7.5mm", keys: 2, wantFile: "SN-2025-00002_7.5mm.pdf", wantPath: "/api/patterns/9/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query string
			f := newFixture(t, map[string]http.HandlerFunc{
				"GET /api/patterns":           jsonBody(http.StatusOK, `[]`),
				"POST /api/patterns/generate": jsonBody(http.StatusOK, generatedPattern),
				"GET " + tt.wantPath: func(w http.ResponseWriter, r *http.Request) {
					query = r.URL.RawQuery
					_, _ = w.Write([]byte("binary"))
				},
			})

			var p Page = NewGenerate(f.env)
			p, _ = settle(t, p, p.Init())
			p, _ = press(t, p, tuitest.KeyCtrlS(), tuitest.KeyPress("d"))
			assert.Contains(t, tuitest.Plain(p.View()), "PDF (7.5mm)")

			for range tt.keys {
				p, _ = press(t, p, tuitest.KeyDown())
			}
			p, shell := press(t, p, tuitest.KeyEnter())
			assert.NotContains(t, tuitest.Plain(p.View()), "PDF (7.5mm)")

			require.Len(t, shell, 1)
			saved := shell[0].(SavedMsg)
			require.NoError(t, saved.Err)
			assert.Equal(t, filepath.Join(f.env.DownloadDir, tt.wantFile), saved.Path)

			data, err := os.ReadFile(saved.Path)
			require.NoError(t, err)
			assert.Equal(t, "binary", string(data))
			if tt.keys > 0 {
				assert.Contains(t, query, "size_mm=")
			}
		})
	}
}

func TestGenerate_MenuClosesOnOtherKey(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"GET /api/patterns":           jsonBody(http.StatusOK, `[]`),
		"POST /api/patterns/generate": jsonBody(http.StatusOK, generatedPattern),
	})

	var p Page = NewGenerate(f.env)
	p, _ = settle(t, p, p.Init())
	p, _ = press(t, p, tuitest.KeyCtrlS(), tuitest.KeyPress("d"), tuitest.KeyPress("p"))

	assert.NotContains(t, tuitest.Plain(p.View()), "PNG Image")
	url, open := f.env.Lightbox.Current()
	assert.True(t, open)
	assert.Contains(t, url, "/api/patterns/9/preview")
}
