package common

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error      string      `json:"error"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	RetryAfter int         `json:"retryAfter,omitempty"`
}

// ValidationError represents a validation error detail
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthResponse is served by the health check
type HealthResponse struct {
	Status string      `json:"status"`
	Build  interface{} `json:"build,omitempty"`
}

// ErrorTitle is the fixed, untranslated error field. Clients branch on it.
type ErrorTitle string

// Standard error titles
const (
	ErrTitleValidation      ErrorTitle = "Validation failed"
	ErrTitleTooManyRequests ErrorTitle = "Too many requests"
	ErrTitleEmailFailed     ErrorTitle = "Email sending failed"
	ErrTitleInternalServer  ErrorTitle = "Internal server error"
	ErrTitleBadRequest      ErrorTitle = "Bad request"
	ErrTitleNotFound        ErrorTitle = "Not found"
	ErrTitleForbidden       ErrorTitle = "Forbidden"
)

// NewErrorResponse creates a new error response
func NewErrorResponse(title ErrorTitle, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:   string(title),
		Message: message,
		Details: details,
	}
}

// NewRateLimitResponse creates the body of a 429 reply
func NewRateLimitResponse(message string, retryAfter int) ErrorResponse {
	return ErrorResponse{
		Error:      string(ErrTitleTooManyRequests),
		Message:    message,
		RetryAfter: retryAfter,
	}
}
