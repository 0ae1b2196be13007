// Package logging configures the process-wide slog logger for the rescue
// drill binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/koscakluka/ema-rescue/internal/config"
)

// Setup installs the default logger writing to w: JSON in production,
// text otherwise. Library packages log through OpenTelemetry; their records
// are written to the same handler.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	installLoggerProvider(handler)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// SetupFile is Setup writing to the configured log file, for hosts that own
// the terminal. The returned close function flushes and closes the file.
func SetupFile(cfg *config.Config) (*slog.Logger, func() error, error) {
	file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return Setup(cfg, file), file.Close, nil
}

// WithSession adds a session ID to logger context.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session", sessionID)
}
