// Package testing provides test utilities for TUI components.
package testing

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Drain runs cmd and returns every message it produces. Batches are
// flattened; commands returned by the messages themselves are not run, so
// repeating ticks stop after one round.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Find returns the first message of type T in msgs.
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// TestRenderer captures the output of a Bubble Tea model without requiring a real terminal.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Commands contains all commands returned by Update calls
	Commands []tea.Cmd

	// Messages contains all messages sent to the model
	Messages []tea.Msg
}

// NewTestRenderer creates a new test renderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{}
}

// Update sends a message to the model and captures the result.
func (r *TestRenderer) Update(model tea.Model, msg tea.Msg) tea.Model {
	r.Messages = append(r.Messages, msg)

	newModel, cmd := model.Update(msg)
	if cmd != nil {
		r.Commands = append(r.Commands, cmd)
	}
	r.Output = newModel.View()
	return newModel
}

// Settle runs the pending commands and feeds their messages back, repeating
// for up to rounds rounds. It returns the final model.
func (r *TestRenderer) Settle(model tea.Model, rounds int) tea.Model {
	for i := 0; i < rounds && len(r.Commands) > 0; i++ {
		pending := r.Commands
		r.Commands = nil
		for _, cmd := range pending {
			for _, msg := range Drain(cmd) {
				model = r.Update(model, msg)
			}
		}
	}
	return model
}

// Plain returns the last output without styling.
func (r *TestRenderer) Plain() string {
	return Plain(r.Output)
}

// Lines returns the unstyled output split by newlines.
func (r *TestRenderer) Lines() []string {
	return strings.Split(StripANSI(r.Output), "\n")
}
