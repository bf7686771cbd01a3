// Package config loads and validates client settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/spf13/viper"
)

// Settings is the validated client configuration.
type Settings struct {
	ServerURL   string
	DownloadDir string
	LogFile     string
	LogLevel    string
	LogFormat   string
	Timeout     time.Duration
	Record      bool
}

// Defaults registers default values with v.
func Defaults(v *viper.Viper) {
	v.SetDefault("server.url", "http://localhost:8000")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("downloads.dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "$HOME/.local/state/phonecdp/phonecdp.log")
	v.SetDefault("tui.record", false)
}

// Load reads Settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		ServerURL:   strings.TrimRight(v.GetString("server.url"), "/"),
		Timeout:     v.GetDuration("server.timeout"),
		DownloadDir: ExpandPath(v.GetString("downloads.dir")),
		LogFile:     ExpandPath(v.GetString("logging.file")),
		LogLevel:    v.GetString("logging.level"),
		LogFormat:   v.GetString("logging.format"),
		Record:      v.GetBool("tui.record"),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.ServerURL == "" {
		return fmt.Errorf("%w: server.url", common.ErrMissingConfig)
	}
	u, err := url.Parse(s.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server.url %q must be an http(s) URL", common.ErrInvalidConfig, s.ServerURL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: server.timeout must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
