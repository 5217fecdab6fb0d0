// Package errors defines stable error codes for all RAB failure modes.
package errors

import (
	std "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// AnalyzerUnavailable indicates rust-analyzer could not be spawned
	AnalyzerUnavailable ErrorCode = "ANALYZER_UNAVAILABLE"
	// SessionUninitialized indicates an operation ran before the initialize handshake completed
	SessionUninitialized ErrorCode = "SESSION_UNINITIALIZED"
	// SnippetNotFound indicates the anchor snippet is not a substring of the file
	SnippetNotFound ErrorCode = "SNIPPET_NOT_FOUND"
	// OccurrenceNotFound indicates fewer qualifying symbol matches than requested
	OccurrenceNotFound ErrorCode = "OCCURRENCE_NOT_FOUND"
	// MalformedFrame indicates a header parse or length mismatch on the analyzer stream.
	// The stream is out of sync after this; the session is unrecoverable.
	MalformedFrame ErrorCode = "MALFORMED_FRAME"
	// UpstreamNull indicates the analyzer replied with an explicit null result
	// where the calling operation requires one
	UpstreamNull ErrorCode = "UPSTREAM_NULL"
	// SubprocessIO indicates a pipe read/write failure against the analyzer process
	SubprocessIO ErrorCode = "SUBPROCESS_IO"
	// SymbolNotFound indicates no enclosing symbol covers a position
	SymbolNotFound ErrorCode = "SYMBOL_NOT_FOUND"
	// InvalidParams indicates a malformed tool request
	InvalidParams ErrorCode = "INVALID_PARAMS"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// RabError is a coded error with an optional wrapped cause.
type RabError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new RabError
func New(code ErrorCode, message string) *RabError {
	return &RabError{Code: code, Message: message}
}

// Newf creates a new RabError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RabError {
	return &RabError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new RabError wrapping a cause
func Wrap(code ErrorCode, message string, cause error) *RabError {
	return &RabError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *RabError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RabError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *RabError) WithDetails(details interface{}) *RabError {
	e.Details = details
	return e
}

// CodeOf returns the error code carried by err, or InternalError for
// uncoded errors.
func CodeOf(err error) ErrorCode {
	var re *RabError
	if std.As(err, &re) {
		return re.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
