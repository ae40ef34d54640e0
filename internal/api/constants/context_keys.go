package constants

// Context keys set by middleware
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyLanguage  = "language"
)

// Headers read or written by middleware
const (
	HeaderRequestID       = "X-Request-ID"
	HeaderRetryAfter      = "Retry-After"
	HeaderContentLanguage = "Content-Language"
)
