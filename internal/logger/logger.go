package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/sentinel/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Output formats
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the global logger with the given level and output format.
func Init(level LogLevel, format string) {
	InitWithWriter(os.Stdout, level, format)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(out io.Writer, level LogLevel, format string) {
	log = zerolog.New(newOutput(out, format)).With().Timestamp().Logger()
	SetLogLevel(level)
}

func newOutput(out io.Writer, format string) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatConsole:
		return consoleWriter(out)
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return consoleWriter(out)
	}

	return out
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	// journald stamps lines itself
	if IsService() {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	return output
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New().WithData(errors.ErrInvalidLogLevel, name)
	}
}

// IsService checks if the application is running as a service
func IsService() bool {
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid() && !term.IsTerminal(int(os.Stdin.Fd()))
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
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
	return &LogEvent{log.Error().
		Str("error_code", err.Code().String()).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}
