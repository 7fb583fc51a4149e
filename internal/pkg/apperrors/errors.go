package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrNotFound              = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Conflict is returned when an optimistic save loses against a
	// concurrent writer. Callers are expected to retry.
	ErrConflict = errors.New("concurrent modification conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Store errors cover persistence and blob I/O failures. They are
	// transient from the caller's point of view.
	ErrStore = errors.New("store failure")

	// PartialFailure marks a multi-entity cascade where some steps
	// succeeded and at least one failed.
	ErrPartialFailure = errors.New("partial failure")
)

// Entity errors
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrBlobNotFound       = errors.New("blob not found")
)

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a new custom error for malformed or out-of-range input
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewStoreError wraps an underlying persistence or blob I/O failure
func NewStoreError(err error, message string) error {
	return &CustomError{
		Err:     ErrStore,
		Message: fmt.Sprintf("%s: %v", message, err),
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// FailedStep records one failed step of a cascade.
type FailedStep struct {
	Step string
	Err  error
}

// PartialFailureError reports a cascade that applied some steps and failed
// others. Completed holds the steps that were applied, Failed the ones that
// were not. The cascade is retryable: re-running skips already-applied steps.
type PartialFailureError struct {
	Op        string
	Completed []string
	Failed    []FailedStep
}

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s partially failed: %d step(s) applied, %d failed", e.Op, len(e.Completed), len(e.Failed))
	for _, f := range e.Failed {
		fmt.Fprintf(&b, "; %s: %v", f.Step, f.Err)
	}
	return b.String()
}

// Unwrap makes the error match ErrPartialFailure via errors.Is
func (e *PartialFailureError) Unwrap() error {
	return ErrPartialFailure
}

// NewPartialFailureError creates a PartialFailureError for the named operation
func NewPartialFailureError(op string, completed []string, failed []FailedStep) *PartialFailureError {
	return &PartialFailureError{
		Op:        op,
		Completed: completed,
		Failed:    failed,
	}
}
