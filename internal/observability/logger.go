// Package observability holds the session logger and turn metrics.
package observability

import (
	"io"
	"log/slog"
)

type LoggerConfig struct {
	Level slog.Level
	JSON  bool
}

func NewLogger(cfg LoggerConfig, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: cfg.Level})
	} else {
		handler = slog.NewTextHandler(writer, &slog.HandlerOptions{Level: cfg.Level})
	}
	return slog.New(handler).With(slog.String("service", "sqlchat"))
}
