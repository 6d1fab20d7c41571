// Package logger defines the pluggable logging interface used across the
// proxy. Components depend on Logger, not on any concrete logging library,
// so tests can substitute a no-op or recording implementation.
package logger

// Logger is the logging surface every component is constructed with.
// Implementations are expected to be safe for concurrent use.
type Logger interface {
	Log(format string)
	Logf(format string, v ...any)

	Warn(format string)
	Warnf(format string, v ...any)

	Debug(format string)
	Debugf(format string, v ...any)

	Error(format string)
	Errorf(format string, v ...any)

	Fatal(format string)
	Fatalf(format string, v ...any)
}
