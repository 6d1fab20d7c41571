package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// DefaultLogger is the production Logger, backed by zerolog. It writes
// structured JSON to stdout unless LOG_FORMAT=console is set, in which
// case it falls back to zerolog's human-readable console writer.
type DefaultLogger struct {
	zl zerolog.Logger
}

// New builds a DefaultLogger. level is one of zerolog's level names
// ("debug", "info", "warn", "error"); an unrecognized value defaults to info.
func New(level string) *DefaultLogger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var w zerolog.Logger
	if os.Getenv("LOG_FORMAT") == "console" {
		w = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		w = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return &DefaultLogger{zl: w.Level(lvl)}
}

// Default is a ready-to-use logger for call sites that don't thread one
// through explicitly (mirrors the package-level convenience logger the
// rest of the corpus keeps around for top-level glue code).
var Default Logger = New("info")

func (l *DefaultLogger) Log(format string) { l.zl.Info().Msg(format) }
func (l *DefaultLogger) Logf(format string, v ...any) {
	l.zl.Info().Msgf(format, v...)
}

func (l *DefaultLogger) Debug(format string) { l.zl.Debug().Msg(format) }
func (l *DefaultLogger) Debugf(format string, v ...any) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *DefaultLogger) Warn(format string) { l.zl.Warn().Msg(format) }
func (l *DefaultLogger) Warnf(format string, v ...any) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *DefaultLogger) Error(format string) { l.zl.Error().Msg(format) }
func (l *DefaultLogger) Errorf(format string, v ...any) {
	l.zl.Error().Msgf(format, v...)
}

func (l *DefaultLogger) Fatal(format string) { l.zl.Fatal().Msg(format) }
func (l *DefaultLogger) Fatalf(format string, v ...any) {
	l.zl.Fatal().Msgf(format, v...)
}
