package tui

import (
	"time"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Client      *api.Client
	Notifier    *notify.Notifier
	Now         func() time.Time
	Route       string
	DownloadDir string
	Width       int
	Height      int
	Record      bool
	ShowHelp    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Route:       "/",
		DownloadDir: ".",
		Width:       80,
		Height:      24,
		ShowHelp:    true,
	}
}

// WithClient sets the service client.
func WithClient(client *api.Client) Option {
	return func(c *Config) {
		c.Client = client
	}
}

// WithNotifier sets the notifier. A default one is built otherwise.
func WithNotifier(n *notify.Notifier) Option {
	return func(c *Config) {
		c.Notifier = n
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithRoute sets the initial location.
func WithRoute(fragment string) Option {
	return func(c *Config) {
		c.Route = fragment
	}
}

// WithDownloadDir sets where downloads and exports are saved.
func WithDownloadDir(dir string) Option {
	return func(c *Config) {
		c.DownloadDir = dir
	}
}

// WithClock overrides the clock used for default serials and export names.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithRecording enables the frame recorder.
func WithRecording(enabled bool) Option {
	return func(c *Config) {
		c.Record = enabled
	}
}

// WithHelp toggles the help bar.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
