package dlt

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// DefaultLogger implements Logger on top of slog with a tint handler
//
// The zero value logs through slog.Default().
type DefaultLogger struct {
	l *slog.Logger
}

// NewLogger creates a DefaultLogger writing colored output to w at the given level.
// A nil writer means os.Stderr.
func NewLogger(level slog.Leveler, w io.Writer) *DefaultLogger {
	if w == nil {
		w = os.Stderr
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})
	return &DefaultLogger{l: slog.New(handler)}
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *DefaultLogger) logger() *slog.Logger {
	if l == nil || l.l == nil {
		return slog.Default()
	}
	return l.l
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	l.logger().Info(fmt.Sprintf(msg, args...))
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...any) {
	l.logger().Warn(fmt.Sprintf(msg, args...))
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	l.logger().Error(fmt.Sprintf(msg, args...))
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	l.logger().Debug(fmt.Sprintf(msg, args...))
}

// SilentLogger implements Logger interface but does not output any logs
// This is useful for testing environments where log output is not desired
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing (silent)
func (l *SilentLogger) Info(msg string, args ...any) {}

// Warn does nothing (silent)
func (l *SilentLogger) Warn(msg string, args ...any) {}

// Error does nothing (silent)
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing (silent)
func (l *SilentLogger) Debug(msg string, args ...any) {}
