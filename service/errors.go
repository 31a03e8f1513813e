package services

import "fmt"

// ValidationError rejects malformed input at the boundary, before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent matter or document.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func newNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate matter name or Bates prefix.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func newConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failed external call (blob store or AI endpoint).
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func newUpstreamError(message string, err error) *UpstreamError {
	return &UpstreamError{Message: message, Err: err}
}
