package app

import (
	"io"
	"log/slog"
)

// newLogger creates a slog.Logger writing to outW in the given format. It
// does not set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(levelStr)}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}

// parseLevel maps a level name to its slog.Level; unknown names mean info.
func parseLevel(levelStr string) slog.Level {
	switch levelStr {
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
