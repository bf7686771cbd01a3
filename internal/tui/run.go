package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/phonecdp/internal/common"
)

// New builds the shell model from opts.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Client == nil {
		return Model{}, fmt.Errorf("%w: api client is required", common.ErrMissingConfig)
	}
	return newModel(ctx, cfg), nil
}

// Run starts the interactive client and blocks until it exits.
func Run(ctx context.Context, opts ...Option) error {
	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := New(ctx, opts...)
	if err != nil {
		return err
	}

	recorder := NewRecorder(m.config.Record)
	defer recorder.Close()
	m.recorder = recorder

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// The toast hides from a timer goroutine; Send must not run on the
	// update loop itself.
	m.env.Notifier.OnChange(func() {
		go program.Send(notifyChangedMsg{})
	})

	common.LogInfo("starting interactive client", common.Fields{
		"server":   m.config.Client.BaseURL(),
		"location": m.location,
	})

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
