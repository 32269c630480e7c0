// Package logging configures the default slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel overrides the default level when set.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name to a slog.Level. Unknown names yield info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
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

// LevelFromEnv returns the level from LOG_LEVEL, or info when unset.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// New creates a logger writing to w. It does not touch the default logger.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetDefaultLogger installs a stderr logger as the slog default.
// Stdout is reserved for the inventory document.
func SetDefaultLogger(level slog.Level, json bool) {
	slog.SetDefault(New(os.Stderr, level, json))
}

// SetDefaultStructuredLogger installs a JSON stderr logger tagged with the
// service name and version.
func SetDefaultStructuredLogger(name, version string, level slog.Level) {
	logger := New(os.Stderr, level, true).With(
		slog.String("service", name),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}
