// Package logging builds the slog loggers used across testimpact.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelSilent is above every standard level and suppresses all output.
const LevelSilent = slog.Level(100)

// New creates a logger writing text or JSON records to w.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelSilent}))
}

// LevelFromString converts debug, info, warn or error (any case) to a level.
// Unrecognized strings map to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// LevelFromVerbosity maps CLI flags to a level. With no -v flags the
// configured level is used; -v gives info and -vv or more gives debug.
func LevelFromVerbosity(verbosity int, quiet bool, configured slog.Level) slog.Level {
	switch {
	case quiet:
		return LevelSilent
	case verbosity == 1:
		return min(configured, slog.LevelInfo)
	case verbosity >= 2:
		return slog.LevelDebug
	default:
		return configured
	}
}
