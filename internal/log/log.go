// Package log provides structured, colored logging for the benchmark harness.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers for different parts of the harness.
var (
	RPC        zerolog.Logger
	UTXO       zerolog.Logger
	Dispatcher zerolog.Logger
	Monitor    zerolog.Logger
	Miner      zerolog.Logger
	Bench      zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stdout, "info")
	initComponentLoggers()
}

// Init initializes the logger with the given configuration. When file is
// non-empty, logs are written to both the console (colored or JSON
// depending on jsonOutput) and the file (always JSON for machine parsing).
func Init(level string, jsonOutput bool, file string) error {
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		lvl := parseLevel(level)

		var consoleWriter io.Writer
		if jsonOutput {
			consoleWriter = os.Stdout
		} else {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: "15:04:05",
				NoColor:    false,
			}
		}

		multi := zerolog.MultiLevelWriter(consoleWriter, f)
		Logger = zerolog.New(multi).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	} else if jsonOutput {
		Logger = NewJSONLogger(os.Stdout, level)
	} else {
		Logger = NewConsoleLogger(os.Stdout, level)
	}

	initComponentLoggers()
	return nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}

	lvl := parseLevel(level)
	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	lvl := parseLevel(level)
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	RPC = Logger.With().Str("component", "rpc").Logger()
	UTXO = Logger.With().Str("component", "utxo").Logger()
	Dispatcher = Logger.With().Str("component", "dispatcher").Logger()
	Monitor = Logger.With().Str("component", "monitor").Logger()
	Miner = Logger.With().Str("component", "miner").Logger()
	Bench = Logger.With().Str("component", "bench").Logger()
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// WithEndpoint returns a logger with an endpoint field, for per-node context.
func WithEndpoint(uri string) zerolog.Logger {
	return Logger.With().Str("endpoint", uri).Logger()
}

// WithRun returns a logger with a run_id field, so bench.log lines from one
// invocation of the bench subcommand (which may execute several configured
// benchmarks plus a bisect pass back to back) can be grouped by grep/jq
// without relying on wall-clock timestamps.
func WithRun(runID string) zerolog.Logger {
	return Logger.With().Str("run_id", runID).Logger()
}

// Sampled wraps logger with zerolog's own basic sampler, emitting one line
// out of every n. The dispatcher drives per-transaction sends at rates
// where per-send debug logging would otherwise produce millions of lines
// over a single benchmark; Sampled lets that tracing stay on without
// drowning bench.log.
func Sampled(logger zerolog.Logger, n uint32) zerolog.Logger {
	return logger.Sample(&zerolog.BasicSampler{N: n})
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info logs an info message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal logs a fatal message and exits.
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Timed logs how long an operation took, at debug level.
func Timed(name string) func() {
	start := time.Now()
	return func() {
		Logger.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("timed")
	}
}
