package config

import "codeberg.org/mutker/sentinel/internal/logger"

// Option defines a configuration option that can be passed to Load
type Option func(*options)

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "SENTINEL"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Level converts to the logger's level. Invalid levels map to info.
func (l LogLevel) Level() logger.LogLevel {
	level, err := logger.ParseLevel(string(l))
	if err != nil {
		return logger.InfoLevel
	}

	return level
}
