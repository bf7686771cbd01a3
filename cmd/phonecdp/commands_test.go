package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/config"
)

// testServer records "METHOD path?query" for every request and answers from
// routes keyed by "METHOD path".
type testServer struct {
	*httptest.Server
	requests []string
	mu       sync.Mutex
}

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *testServer {
	t.Helper()
	s := &testServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		req := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			req += "?" + r.URL.RawQuery
		}
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// runCommand executes cmd against serverURL and returns its stdout.
func runCommand(t *testing.T, cmd *cobra.Command, serverURL string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	config.Defaults(viper.GetViper())
	viper.Set("server.url", serverURL)
	viper.Set("downloads.dir", t.TempDir())
	t.Cleanup(func() {
		viper.Reset()
		config.Defaults(viper.GetViper())
	})

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
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

func TestHealthCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": reply(http.StatusOK, `{"status":"ok"}`),
	})

	out, err := runCommand(t, healthCmd(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+srv.URL+" is ok\n", out)
}

func TestHealthCmd_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 2 {
				reply(http.StatusServiceUnavailable, `{"detail":"starting"}`)(w, r)
				return
			}
			reply(http.StatusOK, `{"status":"ok"}`)(w, r)
		},
	})

	_, err := runCommand(t, healthCmd(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestStatsCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/results/stats": reply(http.StatusOK, `{"total_patterns":3,"total_verifications":1204,"pass_rate":66.7,
			"avg_confidence":0.712,"avg_markers":3.5,"verdicts":{"authentic":800,"suspicious":300,"counterfeit":104}}`),
	})

	out, err := runCommand(t, statsCmd(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "1,204")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "71.2%")
	assert.Contains(t, out, "3.5/4")
	assert.Contains(t, out, "COUNTERFEIT")
	assert.Contains(t, out, "104")
}

func TestVerifyCmd_Single(t *testing.T) {
	var fields map[string]string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/verify": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			fields = map[string]string{
				"pattern_id":    r.FormValue("pattern_id"),
				"print_size_mm": r.FormValue("print_size_mm"),
				"notes":         r.FormValue("notes"),
			}
			reply(http.StatusOK, `{"id":7,"verdict":"AUTHENTIC","confidence":0.84,"markers_found":4,"alignment_method":"markers",
				"scores":{"moire":0.9,"color":0.8,"correlation":0.7,"gradient":0.6},"pattern_serial":"SN-2025-00001"}`)(w, r)
		},
	})
	files := writeImages(t, "photo.jpg")

	out, err := runCommand(t, verifyCmd(), srv.URL, "--pattern", "4", "--print-size", "15", "--notes", "shelf", files[0])
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"pattern_id": "4", "print_size_mm": "15", "notes": "shelf"}, fields)
	assert.Contains(t, out, "Verification #7")
	assert.Contains(t, out, "AUTHENTIC")
	assert.Contains(t, out, "84.0%")
	assert.Contains(t, out, "Moire (40%)")
	assert.Contains(t, out, "4/4")
}

func TestVerifyCmd_Batch(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/verify/batch": reply(http.StatusOK, `{"results":[
			{"id":8,"filename":"a.jpg","verdict":"AUTHENTIC","confidence":0.9},
			{"filename":"b.jpg","verdict":"ERROR","error":"no pattern detected"}]}`),
	})
	files := writeImages(t, "a.jpg", "b.jpg", "notes.txt")

	out, err := runCommand(t, verifyCmd(), srv.URL, "-p", "4", files[0], files[1], files[2])
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /api/verify/batch"}, srv.log())
	assert.Contains(t, out, "skipped "+files[2]+": not an image")
	assert.Contains(t, out, "no pattern detected")
	assert.Contains(t, out, "#8")
	assert.Contains(t, out, "1/2 Passed")
}

func TestVerifyCmd_Rejected(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/verify": reply(http.StatusUnprocessableEntity, `{"detail":"pattern not found"}`),
	})
	files := writeImages(t, "photo.jpg")

	tests := []struct {
		wantErr error
		name    string
		wantMsg string
		args    []string
	}{
		{name: "no images", args: []string{"-p", "4", filepath.Join(t.TempDir(), "missing.jpg")}, wantErr: common.ErrNoFiles},
		{name: "bad print size", args: []string{"-p", "4", "--print-size", "0", files[0]}, wantErr: common.ErrInvalidSize},
		{name: "service rejects", args: []string{"-p", "99", files[0]}, wantMsg: "pattern not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, verifyCmd(), srv.URL, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
	assert.Equal(t, []string{"POST /api/verify"}, srv.log())
}

func TestResultsListCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/results": reply(http.StatusOK, `{"results":[
			{"id":3,"verdict":"COUNTERFEIT","confidence":0.21,"pattern_label":"Batch A","markers_found":2,"alignment_method":"feature","print_size_mm":15}
		],"total":40}`),
	})

	out, err := runCommand(t, resultsListCmd(), srv.URL, "--verdict", "counterfeit", "--pattern", "4", "--limit", "10", "--offset", "20")
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /api/results?limit=10&offset=20&pattern_id=4&verdict=COUNTERFEIT"}, srv.log())
	assert.Contains(t, out, "Results (1 of 40)")
	assert.Contains(t, out, "Batch A")
	assert.Contains(t, out, "21.0%")
	assert.Contains(t, out, "2/4")

	_, err = runCommand(t, resultsListCmd(), srv.URL, "--verdict", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown verdict "maybe"`)
}

func TestResultsShowCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/verify/12": reply(http.StatusOK, `{"id":12,"verdict":"SUSPICIOUS","confidence":0.6,
			"weights":{"moire":0.25,"color":0.25,"correlation":0.25,"gradient":0.25}}`),
	})

	out, err := runCommand(t, resultsShowCmd(), srv.URL, "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Moire (25%)")
	assert.Contains(t, out, srv.URL+"/api/verify/12/images/aligned")
}

func TestResultsNotesAndDelete(t *testing.T) {
	var notes map[string]string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"PATCH /api/results/5/notes": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&notes)
			reply(http.StatusOK, `{"message":"Notes updated"}`)(w, r)
		},
		"DELETE /api/results/5": reply(http.StatusOK, `{"message":"Result deleted"}`),
	})

	out, err := runCommand(t, resultsNotesCmd(), srv.URL, "5", "recheck lighting")
	require.NoError(t, err)
	assert.Equal(t, "✓ Notes saved\n", out)
	assert.Equal(t, map[string]string{"notes": "recheck lighting"}, notes)

	out, err = runCommand(t, resultsDeleteCmd(), srv.URL, "5")
	require.NoError(t, err)
	assert.Equal(t, "✓ Deleted\n", out)

	_, err = runCommand(t, resultsDeleteCmd(), srv.URL, "five")
	assert.ErrorIs(t, err, common.ErrInvalidResult)
}

func TestResultsExportCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/results/export": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("id,verdict\n1,AUTHENTIC\n"))
		},
	})
	dest := filepath.Join(t.TempDir(), "out", "results.csv")

	out, err := runCommand(t, resultsExportCmd(), srv.URL, "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "id,verdict\n1,AUTHENTIC\n", string(data))
}

func TestResultsExportCmd_FailureRemovesFile(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/results/export": reply(http.StatusForbidden, `{"detail":"export disabled"}`),
	})
	dest := filepath.Join(t.TempDir(), "results.csv")

	_, err := runCommand(t, resultsExportCmd(), srv.URL, "-o", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export disabled")
	assert.NoFileExists(t, dest)
}

func TestPatternsGenerateCmd(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	var sent map[string]any
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/patterns": reply(http.StatusOK, `[{"id":1,"serial_number":"SN-2025-00001"}]`),
		"POST /api/patterns/generate": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&sent)
			reply(http.StatusOK, `{"id":2,"seed":77,"serial_number":"SN-2025-00002"}`)(w, r)
		},
	})

	out, err := runCommand(t, patternsGenerateCmd(), srv.URL, "--label", "Batch B", "--seed", "77")
	require.NoError(t, err)

	assert.Equal(t, "SN-2025-00002", sent["serial_number"])
	assert.Equal(t, "Batch B", sent["label"])
	assert.InDelta(t, 77, sent["seed"], 0)
	assert.Contains(t, out, "Pattern generated: #2 SN-2025-00002 (seed 77)")
	assert.Contains(t, out, srv.URL+"/api/patterns/2/preview")
}

func TestPatternsGenerateCmd_InvalidSeed(t *testing.T) {
	srv := newTestServer(t, nil)

	_, err := runCommand(t, patternsGenerateCmd(), srv.URL, "--seed", "abc")
	assert.ErrorIs(t, err, common.ErrInvalidSeed)
	assert.Empty(t, srv.log())
}

func TestPatternsListCmd(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/patterns": reply(http.StatusOK, `[]`),
	})

	out, err := runCommand(t, patternsListCmd(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No patterns found")
}

func TestPatternsDownloadCmd(t *testing.T) {
	var query string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/patterns/2": reply(http.StatusOK, `{"id":2,"serial_number":"SN-2025-00002"}`),
		"GET /api/patterns/2/pdf": func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			_, _ = w.Write([]byte("%PDF"))
		},
	})

	out, err := runCommand(t, patternsDownloadCmd(), srv.URL, "2", "--pdf", "--size", "7.5")
	require.NoError(t, err)
	assert.Equal(t, "size_mm=7.5", query)
	assert.Contains(t, out, "SN-2025-00002_7.5mm.pdf")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "12", want: 12},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidResult)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCommand(t, versionCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, "phonecdp dev\n", out)
}
