package contact

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Sentinel errors for the contact pipeline
var (
	ErrValidation  = errors.New("validation error")
	ErrRateLimited = errors.New("rate limited")
)

// FieldError is one violated constraint, in the caller's language
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one FieldError per invalid field
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := lo.Map(e.Fields, func(f FieldError, _ int) string { return f.Field })
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Field returns the error reported for field, if any
func (e *ValidationError) Field(field string) (FieldError, bool) {
	return lo.Find(e.Fields, func(f FieldError) bool { return f.Field == field })
}

// RateLimitError means the submitter must wait before sending again
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds is the wait rounded up to whole seconds
func (e *RateLimitError) RetryAfterSeconds() int {
	return int((e.RetryAfter + time.Second - 1) / time.Second)
}
