package errors

// Common error codes
const (
	// System errors
	ErrInternal       ErrorCode = "internal_error"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidFormat   ErrorCode = "invalid_format"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrUnmarshalConfig ErrorCode = "unmarshal_config_failed"

	// Source errors
	ErrSourceUnavailable ErrorCode = "source_unavailable"

	// Lifecycle errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrUnitAborted    ErrorCode = "unit_aborted"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidFormat:     "Invalid output format",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrUnmarshalConfig:   "Failed to unmarshal configuration",
	ErrSourceUnavailable: "Source unavailable",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrUnitAborted:       "Unit of work terminated abnormally",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
