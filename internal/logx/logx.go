// Package logx builds the structured logger used by the CLI.
package logx

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a log/slog logger at the given level. Supported
// levels: "debug", "info", "warn", "error"; anything else means info.
// Format "json" emits JSON lines, anything else the text handler.
func NewLogger(level, format string) *slog.Logger {
	var slevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slevel = slog.LevelDebug
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slevel}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// SetDefault installs the logger as the process default.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
