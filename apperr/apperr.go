// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer: validation errors map to 400, not-found to 404, and
// dependency/upstream failures to 500.
package apperr

import (
	"fmt"
	"strings"
)

// ValidationError is the caller's fault: missing or invalid request fields.
type ValidationError struct {
	Message string
	// Fields lists the offending field names, when known.
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MissingFields builds a ValidationError naming every missing field.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Message: "missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// NotFoundError signals that a referenced task, result or startup is absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFoundf builds a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// DependencyError wraps a failure of a backing collaborator (object store,
// extraction API, task table, result cache). The core never retries these.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// Dependency wraps err as a DependencyError for the given operation.
func Dependency(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

// UpstreamError carries the status code and body of a non-2xx response from
// the extraction service, so callers can diagnose without re-issuing the call.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("extraction service returned %d: %s", e.StatusCode, e.Body)
}
