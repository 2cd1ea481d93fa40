// Package logging provides structured logging for the Pentagram cognitive core.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the handful of levels the core ever needs.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the console rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config controls how a Logger renders its output.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a configured zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

// New builds a Logger from cfg, defaulting to stderr/info/json.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339, NoColor: false}
	}

	zlog := zerolog.New(out).With().Timestamp().Logger()

	switch cfg.Level {
	case LevelDebug:
		zlog = zlog.Level(zerolog.DebugLevel)
	case LevelWarn:
		zlog = zlog.Level(zerolog.WarnLevel)
	case LevelError:
		zlog = zlog.Level(zerolog.ErrorLevel)
	default:
		zlog = zlog.Level(zerolog.InfoLevel)
	}

	return &Logger{logger: zlog}
}

// Nop returns a Logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.emit(l.logger.Debug(), msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.emit(l.logger.Info(), msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.emit(l.logger.Warn(), msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.emit(l.logger.Error(), msg, fields...) }

// WithField returns a child Logger carrying an additional structured field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields ...interface{}) {
	if len(fields)%2 != 0 {
		event.Str("log_error", "odd number of fields")
		event.Msg(msg)
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
