package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerHandlesNilConfig(t *testing.T) {
	logger := NewLogger(nil)
	require.NotNil(t, logger)
	// Development default keeps debug records.
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLoggerProductionDropsDebug(t *testing.T) {
	logger := NewLogger(&Config{AppEnv: "production", LogFormat: "json"})
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
}
