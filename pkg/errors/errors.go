// Package errors provides structured error types for gslbridge.
//
// This package defines error codes and types that enable:
//   - Structured error payloads for the transport layer
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into a few categories:
//   - Environment: the host cannot provide a node-based material right now
//     (NO_GRAPH_API, NO_ACTIVE_OBJECT, NO_ACTIVE_MATERIAL, NODES_DISABLED)
//   - Input: configuration and scene snapshot problems (INVALID_*)
//   - Runtime: asset copy, transport, timeout and internal failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoActiveMaterial, "object has no active material")
//	if errors.Is(err, errors.ErrCodeNoActiveMaterial) {
//	    // report via the error payload
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAssetCopy, origErr, "copy %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Environment errors (terminal for the request, never retried)
	ErrCodeNoGraphAPI       Code = "NO_GRAPH_API"
	ErrCodeNoActiveObject   Code = "NO_ACTIVE_OBJECT"
	ErrCodeNoActiveMaterial Code = "NO_ACTIVE_MATERIAL"
	ErrCodeNodesDisabled    Code = "NODES_DISABLED"

	// Input errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Runtime errors
	ErrCodeAssetCopy Code = "ASSET_COPY"
	ErrCodeTransport Code = "TRANSPORT"
	ErrCodeTimeout   Code = "TIMEOUT"
	ErrCodeInternal  Code = "INTERNAL_ERROR"
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

// IsEnvironment reports whether err describes an unavailable host environment.
// These errors end the request and are reported through the error payload.
func IsEnvironment(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoGraphAPI, ErrCodeNoActiveObject, ErrCodeNoActiveMaterial, ErrCodeNodesDisabled:
		return true
	}
	return false
}
