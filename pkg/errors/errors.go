// Package errors provides structured error types for the tilewright application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the builder API, CLI, and preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - CONFLICTING_*: Mutually exclusive arguments supplied together
//   - UNKNOWN_*: Lookup of an unregistered name
//   - UNSUPPORTED_*: Variant tags outside a closed enumeration
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownProvider, "unknown tile provider: %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownProvider) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "failed to parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidBreaks   Code = "INVALID_BREAKS"
	ErrCodeInvalidLayerID  Code = "INVALID_LAYER_ID"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidPosition Code = "INVALID_POSITION"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeLengthMismatch  Code = "LENGTH_MISMATCH"

	// Mutually exclusive arguments supplied together
	ErrCodeConflictingArgs Code = "CONFLICTING_ARGS"

	// Lookup failures
	ErrCodeUnknownProvider Code = "UNKNOWN_PROVIDER"
	ErrCodeUnknownColumn   Code = "UNKNOWN_COLUMN"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// Closed-enumeration violations (programming errors)
	ErrCodeUnsupportedScale    Code = "UNSUPPORTED_SCALE"
	ErrCodeUnsupportedCategory Code = "UNSUPPORTED_CATEGORY"

	// Network errors (catalog refresh)
	ErrCodeNetwork Code = "NETWORK_ERROR"

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
