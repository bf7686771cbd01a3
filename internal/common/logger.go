package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoggerKey is the context key for logger values.
type LoggerKey struct{}

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel converts a configured level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
}

// SetupLogger configures the global logger to write to w.
func SetupLogger(w io.Writer, level slog.Level, format string) error {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// OpenLogFile opens (creating parents as needed) the file the interactive
// client logs to, so log lines never land on the alternate screen.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// LogError logs an error with additional context.
func LogError(err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))

	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	slog.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// LogInfo logs an info message with fields.
func LogInfo(msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	slog.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

// LogDebug logs a debug message with fields.
func LogDebug(msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	slog.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
