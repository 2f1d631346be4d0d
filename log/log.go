// Package log defines the logging contract used across the service and a
// slog-backed implementation of it.
package log

// Logger is the minimal structured logging surface components depend on.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that includes the given attributes on every record.
	With(args ...any) Logger
}
