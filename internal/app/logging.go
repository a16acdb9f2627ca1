package app

import (
	"log/slog"
	"os"

	"youtube-transcriber/internal/config"
)

// NewLogger builds the process-wide structured logger. Production gets
// JSON lines, everything else a human-readable text handler.
func NewLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
