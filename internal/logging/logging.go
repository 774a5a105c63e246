// Package logging sets up the process-wide slog logger. The terminal
// belongs to the TUI, so records go to a file (or nowhere).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// level controls the log level for every logger built by Setup.
// Default is LevelInfo, which suppresses Debug messages.
var level = new(slog.LevelVar)

// SetLevel parses "debug", "info", "warn" or "error". Unknown names leave
// the level unchanged and return an error.
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}
	level.Set(l)
	return nil
}

// SetVerbose switches between debug and info.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool { return level.Level() <= slog.LevelDebug }

// Setup opens path for appending (creating parent directories), installs a
// text handler on it as the default logger and returns a close func.
// An empty path discards all records. ZLV_DEBUG=1 forces debug level.
func Setup(path string) (*slog.Logger, func() error, error) {
	if os.Getenv("ZLV_DEBUG") == "1" {
		SetVerbose(true)
	}

	var w io.Writer = io.Discard
	closer := func() error { return nil }
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}

	logger := New(w)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// New returns a text logger on w that follows the shared level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultPath returns $XDG_STATE_HOME/zlv/zlv.log, falling back to
// ~/.local/state.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "zlv", "zlv.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "zlv", "zlv.log")
}
