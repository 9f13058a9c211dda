// Package errors provides structured error handling for adbsweep operations.
// It defines error kinds, error types, and provides utilities for creating
// and inspecting errors with structured information.
package errors

import (
	"fmt"
)

// Kind identifies the category of an error.
type Kind string

const (
	// Validation errors. Fatal to starting a sweep, surfaced before any
	// work is dispatched and never retried.
	KindInvalidIP          Kind = "INVALID_IP"
	KindInvalidRange       Kind = "INVALID_RANGE"
	KindInvalidPort        Kind = "INVALID_PORT"
	KindInvalidPortSpec    Kind = "INVALID_PORT_SPEC"
	KindInvalidThreadCount Kind = "INVALID_THREAD_COUNT"
	KindInvalidTimeout     Kind = "INVALID_TIMEOUT"
	KindUnknownProfile     Kind = "UNKNOWN_PROFILE"

	// Probe errors. Local to a single target, recorded in its result and
	// never propagated as a sweep-level failure.
	KindConnectionRefused Kind = "CONNECTION_REFUSED"
	KindConnectionTimeout Kind = "CONNECTION_TIMEOUT"
	KindHandshakeTimeout  Kind = "HANDSHAKE_TIMEOUT"
	KindUnreachableHost   Kind = "UNREACHABLE_HOST"
	KindWorkerFault       Kind = "WORKER_FAULT"

	// Session errors.
	KindScanFailed Kind = "SCAN_FAILED"
	KindCanceled   Kind = "CANCELED"

	KindUnknown Kind = "UNKNOWN"
)

// ValidationError reports a configuration field that failed validation.
type ValidationError struct {
	Kind    Kind
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s, value: %v)", e.Kind, e.Message, e.Field, e.Value)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(kind Kind, message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ProbeError reports a failure probing a single target. It is carried
// inside the target's result and never aborts the sweep.
type ProbeError struct {
	Kind   Kind
	Target string
	Cause  error
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("[%s] probe failed (target: %s)", e.Kind, e.Target)
	}
	return fmt.Sprintf("[%s] probe failed", e.Kind)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// NewProbeError creates a probe error for a specific target.
func NewProbeError(kind Kind, target string, cause error) *ProbeError {
	return &ProbeError{
		Kind:   kind,
		Target: target,
		Cause:  cause,
	}
}

// SessionError reports a sweep-level failure or cancellation.
type SessionError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *SessionError) Unwrap() error {
	return e.Cause
}

// NewSessionError creates a new session error.
func NewSessionError(kind Kind, message string) *SessionError {
	return &SessionError{
		Kind:    kind,
		Message: message,
	}
}

// WrapSessionError wraps an existing error as a session error.
func WrapSessionError(kind Kind, message string, err error) *SessionError {
	return &SessionError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// IsKind checks if an error has a specific kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetKind extracts the kind from an error if it has one.
func GetKind(err error) Kind {
	switch e := err.(type) {
	case *ValidationError:
		return e.Kind
	case *ProbeError:
		return e.Kind
	case *SessionError:
		return e.Kind
	}
	return KindUnknown
}

// IsValidation reports whether the error is a configuration validation
// failure that should prevent a sweep from starting.
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsFatal determines if an error should stop the whole sweep. Probe errors
// are always local to one target.
func IsFatal(err error) bool {
	switch GetKind(err) {
	case KindScanFailed:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrConnectionTimeout creates an error for a connect attempt that timed out.
func ErrConnectionTimeout(target string, cause error) *ProbeError {
	return NewProbeError(KindConnectionTimeout, target, cause)
}

// ErrConnectionRefused creates an error for a refused connection.
func ErrConnectionRefused(target string, cause error) *ProbeError {
	return NewProbeError(KindConnectionRefused, target, cause)
}

// ErrHostUnreachable creates an error for a host that failed the
// reachability check.
func ErrHostUnreachable(target string) *ProbeError {
	return NewProbeError(KindUnreachableHost, target, nil)
}
