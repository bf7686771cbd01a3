package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder writes a session log of every message the shell handled and saves
// each distinct frame it rendered. A disabled recorder does nothing.
type Recorder struct {
	log       *os.File
	dir       string
	lastFrame string
	messages  int
	frames    int
}

// NewRecorder starts a recording under a fresh temp directory. Failure to set
// one up leaves the recorder disabled.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{}
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("phonecdp-record-%d", time.Now().Unix()))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &Recorder{}
	}
	f, err := os.Create(filepath.Join(dir, "session.log"))
	if err != nil {
		return &Recorder{}
	}

	r := &Recorder{log: f, dir: dir}
	r.Log("recording to %s", dir)
	return r
}

// Dir is the recording directory, or "" when disabled.
func (r *Recorder) Dir() string {
	return r.dir
}

// RecordState logs msg with the shell state it produced. The frame is saved
// only when it differs from the previous one.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if r.log == nil {
		return
	}
	r.messages++
	r.Log("%s #%d %s location=%s page=%s gen=%d",
		time.Now().Format("15:04:05.000"), r.messages, typeName(msg), m.location, m.route.Page, m.gen)

	view := m.View()
	if view == r.lastFrame {
		return
	}
	r.lastFrame = view
	r.frames++

	name := fmt.Sprintf("frame-%04d-%s.txt", r.frames, m.route.Page)
	if err := os.WriteFile(filepath.Join(r.dir, name), []byte(view), 0o600); err != nil {
		r.Log("failed to save %s: %v", name, err)
		return
	}
	r.Log("  saved %s", name)
}

// Log appends one line to the session log.
func (r *Recorder) Log(format string, args ...any) {
	if r.log == nil {
		return
	}
	_, _ = fmt.Fprintf(r.log, format+"\n", args...)
}

// Close finishes the session log.
func (r *Recorder) Close() {
	if r.log == nil {
		return
	}
	r.Log("%d messages, %d frames", r.messages, r.frames)
	_ = r.log.Close()
	r.log = nil
}
