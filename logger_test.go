package dlt

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelInfo, &buf)

	logger.Info("fetched %d draws", 30)
	logger.Debug("hidden at info level")
	logger.Warn("draw %q data quality: %s", "25001", "back value 13 out of range")

	out := buf.String()
	assert.Contains(t, out, "fetched 30 draws")
	assert.Contains(t, out, `draw "25001" data quality`)
	assert.NotContains(t, out, "hidden")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSilentLogger(t *testing.T) {
	var logger Logger = NewSilentLogger()
	assert.NotPanics(t, func() {
		logger.Info("x")
		logger.Warn("x")
		logger.Error("x")
		logger.Debug("x")
	})
	var zero *DefaultLogger
	assert.NotPanics(t, func() { zero.Debug("nil logger falls back to slog.Default") })
}
