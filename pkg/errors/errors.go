// Package errors provides structured error types for featurehack.
//
// Every failure that can abort a run carries a machine-readable [Code] so the
// CLI can decide how to report it without string matching:
//   - INVALID_*: bad command-line input or unreadable manifests
//   - UNSUPPORTED_*: a flag the detected cargo version cannot honour
//   - METADATA, PROCESS, VERSION_PROBE: failures of cargo itself
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "--depth requires --feature-powerset")
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // print usage
//	}
//
//	err := errors.Wrap(errors.ErrCodeMetadata, origErr, "failed to read workspace %s", root)
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
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidFeature  Code = "INVALID_FEATURE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeUnsupportedFlag Code = "UNSUPPORTED_FLAG"

	// Resource not found errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// cargo errors
	ErrCodeVersionProbe Code = "VERSION_PROBE"
	ErrCodeMetadata     Code = "METADATA"
	ErrCodeProcess      Code = "PROCESS"
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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ExitError reports a cargo invocation that ran but exited unsuccessfully.
type ExitError struct {
	Command  string // Rendered command line
	ExitCode int    // Process exit status
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("process didn't exit successfully: %s (exit status: %d)", e.Command, e.ExitCode)
}

// Code returns the error code for this error type.
func (e *ExitError) Code() Code {
	return ErrCodeProcess
}
