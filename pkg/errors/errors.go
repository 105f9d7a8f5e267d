// Package errors provides structured error types for vsxpack.
//
// This package defines error codes and types that enable:
//   - Fatal vs. degraded failures to be told apart by the CLI
//   - Machine-readable error codes for the JSON report
//   - User-friendly error messages
//
// # Error Codes
//
// Stage-defining lookups (resolving the pack, reading its manifest) fail with
// [ErrCodeExtensionNotFound] or [ErrCodeMalformedManifest] and abort the run.
// Per-extension lookups inside a fan-out never surface as *Error values; they
// degrade to "not found" or empty license fields instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeExtensionNotFound, "no marketplace match for %s", id)
//	if errors.Is(err, errors.ErrCodeExtensionNotFound) {
//	    // abort
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileSystem, origErr, "write %s", path)
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
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidID    Code = "INVALID_EXTENSION_ID"

	// Resolution errors
	ErrCodeExtensionNotFound Code = "EXTENSION_NOT_FOUND"
	ErrCodeMalformedManifest Code = "MALFORMED_MANIFEST"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Registration errors
	ErrCodeLicenseConflict Code = "LICENSE_CONFLICT"
	ErrCodeFileSystem      Code = "FILESYSTEM"

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
