package logger

import (
	"log/slog"
	"os"
)

var level = new(slog.LevelVar)

// NewLogger builds the application logger and installs it as the slog
// default. Level starts at Info; SetDebug lowers it once flags are parsed.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}

// SetDebug switches the shared log level to Debug.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}
