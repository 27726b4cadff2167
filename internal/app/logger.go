package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the service logger. LOG_FORMAT=json selects the JSON
// handler for deployed environments; the default text handler is meant for
// local development. Debug records are dropped in production.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "catalog"))
}
