// Package obslog is a thin layer over log/slog: a human-readable stderr
// handler by default, switchable to JSON for machine consumption, with
// the fields the search driver and CLI care about threaded through as
// structured attributes rather than formatted into the message string.
package obslog

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a *slog.Logger with the handful of levels the solver uses.
type Logger struct {
	inner *slog.Logger
}

// Config selects the logger's output shape.
type Config struct {
	JSON  bool
	Debug bool
	Out   io.Writer
}

// New builds a Logger from cfg, defaulting to a human-readable stderr
// handler at info level.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{inner: slog.New(handler)}
}

// Default returns a Logger with the package defaults (text, stderr, info).
func Default() *Logger { return New(Config{}) }

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// With returns a Logger with the given attributes attached to every
// subsequent record, mirroring slog.Logger.With.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}
