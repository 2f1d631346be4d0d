package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	LogLevel  string
	LogFormat string
}

// SlogLogger adapts the standard library slog package to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger builds a logger writing to stdout. Format is "text" unless
// configured as "json"; unknown levels fall back to info.
func NewSlogLogger(cfg Config) *SlogLogger {
	return newSlogLogger(os.Stdout, cfg)
}

func newSlogLogger(w io.Writer, cfg Config) *SlogLogger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return &SlogLogger{logger: slog.New(h)}
}

func (l SlogLogger) With(args ...any) Logger {
	return SlogLogger{logger: l.logger.With(args...)}
}

func (l SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Discard returns a Logger that drops every record. Useful as a default in
// constructors and in tests.
func Discard() Logger {
	return SlogLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
