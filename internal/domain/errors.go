package domain

import "fmt"

// ValidationError reports input rejected before any upstream or storage call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a provider-side failure from the model API. Code is
// the provider's own error code when one was reported, zero otherwise.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("upstream API error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}
