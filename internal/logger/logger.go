// Package logger configures the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. Replaced by Init.
var Logger = log.Logger

// Config holds logging settings
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json or pretty
	TimeFormat   string
	ReportCaller bool
	Output       io.Writer // defaults to stdout
}

// Init installs the global logger described by config. An unparsable level falls back to info.
func Init(config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if config.Output != nil {
		output = config.Output
	}
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: config.TimeFormat,
		}
	}

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	contextLogger := zerolog.New(output).
		Level(level).
		With().
		Timestamp()

	if config.ReportCaller {
		contextLogger = contextLogger.Caller()
	}

	Logger = contextLogger.Logger()
	log.Logger = Logger
	// zerolog.Ctx falls back to this logger for contexts that carry none
	zerolog.DefaultContextLogger = &Logger
}

// Debug starts a debug level event
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info level event
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn level event
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error level event
func Error() *zerolog.Event {
	return Logger.Error()
}

// Ctx returns the logger carried by ctx
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches the global logger to ctx
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
