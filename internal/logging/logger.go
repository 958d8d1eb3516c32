// Package logging configures the process-wide slog logger and carries
// per-call correlation IDs through contexts.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Init builds a logger writing to w, installs it as the slog default and
// returns it. level is debug, info, warn or error (default info); format is
// json or text (default text). verbose forces debug.
func Init(w io.Writer, level, format string, verbose bool) *slog.Logger {
	logLevel := ParseLevel(level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(NewCorrelationHandler(handler))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
