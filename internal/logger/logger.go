package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(io.Discard)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}

	return InfoLevel, errors.New().WithData(errors.ErrInvalidLogLevel, name)
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the global logger writing to stdout.
func Init(level LogLevel, isService bool) {
	InitTo(os.Stdout, level, isService)
}

// InitTo initializes the global logger writing to w.
func InitTo(w io.Writer, level LogLevel, isService bool) {
	log = newZerolog(w, isService, false)
	SetLogLevel(level)
}

func newZerolog(w io.Writer, isService, noColor bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with its error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(log.Error(), err)
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with its error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return withCode(log.Fatal(), err)
}

func withCode(e *zerolog.Event, err errors.Error) *LogEvent {
	return &LogEvent{e.
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// Default returns a Logger backed by the global logger set up by Init.
func Default() Logger {
	return globalLogger{}
}

type globalLogger struct{}

func (globalLogger) Debug() *LogEvent                         { return Debug() }
func (globalLogger) Info() *LogEvent                          { return Info() }
func (globalLogger) Warn() *LogEvent                          { return Warn() }
func (globalLogger) Error() *LogEvent                         { return Error() }
func (globalLogger) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }

// New returns a Logger writing uncolored console events to w.
func New(w io.Writer) Logger {
	return &instance{log: newZerolog(w, false, true)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &instance{log: zerolog.Nop()}
}

type instance struct {
	log zerolog.Logger
}

func (l *instance) Debug() *LogEvent { return &LogEvent{l.log.Debug()} }
func (l *instance) Info() *LogEvent  { return &LogEvent{l.log.Info()} }
func (l *instance) Warn() *LogEvent  { return &LogEvent{l.log.Warn()} }
func (l *instance) Error() *LogEvent { return &LogEvent{l.log.Error()} }

func (l *instance) ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(l.log.Error(), err)
}
