package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpInvalidConfigError  = "invalid_configuration"
	HttpPresetNotFoundError = "preset_not_found"
	HttpTooManyTicksError   = "too_many_ticks"
)

// ErrorResponse is the error response body for resampling API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
