// Package errors provides structured error types for layered layout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Layout itself fails in two ways:
//   - CONFIGURATION: the options or graph attributes are invalid or
//     contradict each other (unknown strategy, negative spacing, a manual
//     layer that cannot be honoured, an edge touching a cluster)
//   - GEOMETRY: the computed drawing is degenerate, e.g. two connected
//     nodes placed on the same spot
//
// The outer surfaces add INVALID_GRAPH, INVALID_FORMAT, NOT_FOUND and
// INTERNAL.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "unknown ranker %q", name)
//	if errors.IsConfiguration(err) {
//	    // Report a usage error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGeometry, origErr, "clip edge %s->%s", v, w)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeConfiguration Code = "CONFIGURATION"
	ErrCodeGeometry      Code = "GEOMETRY"

	// Input errors
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return Is(err, ErrCodeConfiguration) }

// IsGeometry reports whether err is a geometry error.
func IsGeometry(err error) bool { return Is(err, ErrCodeGeometry) }
