package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a console slog.Logger with the provided level string.
// LOG_FORMAT=json switches to the JSON handler for log shippers.
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromString(level)}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
