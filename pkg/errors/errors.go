// Package errors provides structured error types for gfabridge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, the CLI and the C boundary
//   - Machine-readable error codes for programmatic handling
//   - Stable numeric status codes for callers on the other side of the boundary
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - OUT_OF_RANGE, STALE_VIEW: Boundary access violations
//   - TRANSPORT, CROSS_ORIGIN: Remote document retrieval failures
//   - INTERNAL: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfRange, "segment index %d out of range [0,%d)", i, n)
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // Handle bounds violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "fetch %s", url)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidField  Code = "INVALID_FIELD"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Boundary access errors
	ErrCodeOutOfRange    Code = "OUT_OF_RANGE"
	ErrCodeStaleView     Code = "STALE_VIEW"
	ErrCodeUnknownHandle Code = "UNKNOWN_HANDLE"

	// Remote retrieval errors
	ErrCodeTransport   Code = "TRANSPORT"
	ErrCodeCrossOrigin Code = "CROSS_ORIGIN"
	ErrCodeNotFound    Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// OutOfRange builds the bounds-violation error shared by every indexed accessor.
// what names the collection (e.g. "segment", "path step").
func OutOfRange(what string, index, count int) *Error {
	return New(ErrCodeOutOfRange, "%s index %d out of range [0,%d)", what, index, count)
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

// =============================================================================
// Boundary Status Codes
// =============================================================================

// Status is the numeric result code returned across the C boundary.
// Values are part of the ABI and must never be renumbered.
type Status int32

const (
	StatusOK            Status = 0
	StatusOutOfRange    Status = 1
	StatusInvalidKind   Status = 2
	StatusInvalidField  Status = 3
	StatusUnknownHandle Status = 4
	StatusTransport     Status = 5
	StatusStaleView     Status = 6
	StatusInternal      Status = 7
)

var statusByCode = map[Code]Status{
	ErrCodeOutOfRange:    StatusOutOfRange,
	ErrCodeInvalidKind:   StatusInvalidKind,
	ErrCodeInvalidField:  StatusInvalidField,
	ErrCodeUnknownHandle: StatusUnknownHandle,
	ErrCodeTransport:     StatusTransport,
	ErrCodeCrossOrigin:   StatusTransport,
	ErrCodeNotFound:      StatusTransport,
	ErrCodeStaleView:     StatusStaleView,
}

// StatusOf maps err to its boundary status code.
// A nil error is StatusOK; errors without a known code are StatusInternal.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	if s, ok := statusByCode[GetCode(err)]; ok {
		return s
	}
	return StatusInternal
}

// String returns the status name used in logs and HTTP responses.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusInvalidKind:
		return "INVALID_KIND"
	case StatusInvalidField:
		return "INVALID_FIELD"
	case StatusUnknownHandle:
		return "UNKNOWN_HANDLE"
	case StatusTransport:
		return "TRANSPORT"
	case StatusStaleView:
		return "STALE_VIEW"
	default:
		return "INTERNAL"
	}
}
