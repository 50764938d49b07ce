package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/axisflow/internal/ctxlog"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}

// WithLogger returns ctx carrying a logger built from cfg's level and
// format, writing to w.
func WithLogger(ctx context.Context, cfg *Config, w io.Writer) context.Context {
	return ctxlog.WithLogger(ctx, newLogger(cfg.LogLevel, cfg.LogFormat, w))
}
