package errors

// Shared error codes. Packages alias these where their failure matches.
const (
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrInvalidConfig   ErrorCode = "invalid_configuration"

	// Configuration loading
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrParseFlags      ErrorCode = "parse_flags_failed"
	ErrDecodeConfig    ErrorCode = "decode_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Runtime
	ErrSourceUnavailable ErrorCode = "source_unavailable"
	ErrTimeout           ErrorCode = "operation_timeout"
	ErrAlreadyRunning    ErrorCode = "already_running"
	ErrInitMetrics       ErrorCode = "init_metrics_failed"
	ErrMetricsServer     ErrorCode = "metrics_server_failed"
	ErrRender            ErrorCode = "render_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read config file",
	ErrBindFlags:         "Failed to bind flags",
	ErrParseFlags:        "Failed to parse command line flags",
	ErrDecodeConfig:      "Failed to decode configuration",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrSourceUnavailable: "Telemetry source unavailable",
	ErrTimeout:           "Operation timed out",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInitMetrics:       "Failed to initialize metrics",
	ErrMetricsServer:     "Metrics server failed",
	ErrRender:            "Failed to render panel",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
