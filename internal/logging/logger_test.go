package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	testCases := []struct {
		level     string
		enabled   slog.Level
		disabled  slog.Level
		checkMute bool
	}{
		{level: "", enabled: slog.LevelInfo, disabled: slog.LevelDebug, checkMute: true},
		{level: "debug", enabled: slog.LevelDebug},
		{level: "WARN", enabled: slog.LevelWarn, disabled: slog.LevelInfo, checkMute: true},
		{level: "error", enabled: slog.LevelError, disabled: slog.LevelWarn, checkMute: true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			logger := NewLogger(Config{Level: tc.level})
			assert.True(t, logger.Enabled(context.Background(), tc.enabled))
			if tc.checkMute {
				assert.False(t, logger.Enabled(context.Background(), tc.disabled))
			}
		})
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Config{Format: "json"})

	logger.Info("draw generated", FieldCount, 3)

	assert.Contains(t, buf.String(), `"msg":"draw generated"`)
	assert.Contains(t, buf.String(), `"count":3`)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), OrDefault(nil))

	logger := NewLogger(Config{})
	assert.Same(t, logger, OrDefault(logger))
}
