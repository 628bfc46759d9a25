// ABOUTME: Structured logging configuration using log/slog
// ABOUTME: Writes to a log file so the TUI keeps the terminal to itself

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file created inside the config directory
const FileName = "storefront.log"

// New builds a logger writing to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Open creates the config directory if needed and returns a logger appending
// to its log file. If configDir is empty, logs are discarded.
func Open(configDir, level, format string) (*slog.Logger, io.Closer, error) {
	if configDir == "" {
		return New(io.Discard, level, format), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return New(f, level, format), f, nil
}

// Discard returns a logger that drops everything, for tests and defaults
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
