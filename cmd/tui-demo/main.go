// Package main runs the TUI against an in-process service with canned data.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui"
)

func main() {
	srv := httptest.NewServer(newDemoService().routes())
	defer srv.Close()

	err := tui.Run(context.Background(),
		tui.WithClient(api.NewClient(srv.URL)),
		tui.WithDownloadDir(os.TempDir()),
		tui.WithSize(120, 40),
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

type demoService struct {
	patterns []model.Pattern
	results  []model.VerificationResult
	mu       sync.Mutex
}

func newDemoService() *demoService {
	now := time.Now().UTC()
	s := &demoService{}
	for i, label := range []string{"Shelf labels", "Warranty cards", "Blister packs"} {
		s.patterns = append(s.patterns, model.Pattern{
			ID:           i + 1,
			SerialNumber: fmt.Sprintf("SN-%d-%05d", now.Year(), i+1),
			Label:        label,
			Seed:         int64(1000 + i),
			PatternSize:  256,
			CreatedAt:    model.Timestamp{Time: now.Add(-time.Duration(72-i*24) * time.Hour)},
		})
	}

	verdicts := []model.Verdict{model.VerdictAuthentic, model.VerdictAuthentic, model.VerdictSuspicious, model.VerdictCounterfeit}
	for i := 0; i < 12; i++ {
		v := verdicts[i%len(verdicts)]
		conf := map[model.Verdict]float64{
			model.VerdictAuthentic:   0.86,
			model.VerdictSuspicious:  0.58,
			model.VerdictCounterfeit: 0.22,
		}[v] - float64(i%3)*0.03
		size := 15
		pat := s.patterns[i%len(s.patterns)]
		s.results = append(s.results, model.VerificationResult{
			ID:              12 - i,
			PatternID:       pat.ID,
			PatternSerial:   pat.SerialNumber,
			PatternLabel:    pat.Label,
			Verdict:         v,
			Confidence:      conf,
			MarkersFound:    4 - i%2,
			AlignmentMethod: "markers",
			PrintSizeMM:     &size,
			Scores:          model.Scores{Moire: conf, Color: conf + 0.05, Correlation: conf - 0.04, Gradient: conf},
			CreatedAt:       model.Timestamp{Time: now.Add(-time.Duration(i) * time.Hour)},
		})
		s.patterns[i%len(s.patterns)].VerificationCount++
	}
	return s
}

func (s *demoService) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.Health{Status: "ok"})
	})
	mux.HandleFunc("GET /api/results/stats", s.stats)
	mux.HandleFunc("GET /api/results", s.listResults)
	mux.HandleFunc("GET /api/verify/{id}", s.getResult)
	mux.HandleFunc("PATCH /api/results/{id}/notes", s.updateNotes)
	mux.HandleFunc("DELETE /api/results/{id}", s.deleteResult)
	mux.HandleFunc("GET /api/patterns", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.patterns)
	})
	mux.HandleFunc("POST /api/patterns/generate", s.generate)
	mux.HandleFunc("POST /api/verify", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "the demo service does not analyze photos"})
	})
	mux.HandleFunc("GET /api/results/export", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,verdict,confidence\n"))
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, r := range s.results {
			_, _ = fmt.Fprintf(w, "%d,%s,%.3f\n", r.ID, r.Verdict, r.Confidence)
		}
	})
	return mux
}

func (s *demoService) stats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.Stats{TotalPatterns: len(s.patterns), TotalVerifications: len(s.results)}
	var markers int
	for _, r := range s.results {
		st.AvgConfidence += r.Confidence
		markers += r.MarkersFound
		switch r.Verdict {
		case model.VerdictAuthentic:
			st.Verdicts.Authentic++
		case model.VerdictSuspicious:
			st.Verdicts.Suspicious++
		case model.VerdictCounterfeit:
			st.Verdicts.Counterfeit++
		}
	}
	if n := len(s.results); n > 0 {
		st.AvgConfidence /= float64(n)
		st.AvgMarkers = float64(markers) / float64(n)
		st.PassRate = float64(st.Verdicts.Authentic) * 100 / float64(n)
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *demoService) listResults(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out := s.results
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, model.ResultList{Results: out, Total: len(s.results)})
}

func (s *demoService) find(r *http.Request) int {
	id, _ := strconv.Atoi(r.PathValue("id"))
	for i, res := range s.results {
		if res.ID == id {
			return i
		}
	}
	return -1
}

func (s *demoService) getResult(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(r); i >= 0 {
		writeJSON(w, http.StatusOK, s.results[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Result not found"})
}

func (s *demoService) updateNotes(w http.ResponseWriter, r *http.Request) {
	var body model.NotesUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(r); i >= 0 {
		s.results[i].Notes = body.Notes
		writeJSON(w, http.StatusOK, model.Message{Message: "Notes updated"})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Result not found"})
}

func (s *demoService) deleteResult(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(r); i >= 0 {
		s.results = append(s.results[:i], s.results[i+1:]...)
		writeJSON(w, http.StatusOK, model.Message{Message: "Result deleted"})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Result not found"})
}

func (s *demoService) generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := time.Now().UnixNano() % 100000
	if req.Seed != nil {
		seed = *req.Seed
	}
	p := model.Pattern{
		ID:           len(s.patterns) + 1,
		SerialNumber: req.SerialNumber,
		Label:        req.Label,
		Notes:        req.Notes,
		Seed:         seed,
		PatternSize:  256,
		CreatedAt:    model.Timestamp{Time: time.Now().UTC()},
	}
	s.patterns = append([]model.Pattern{p}, s.patterns...)
	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
