// Package errors provides unified error handling with structured error codes
// shared across the suggestion pipeline.
package errors

import "fmt"

// Code classifies an error for retry and fallback decisions.
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeGenerationFailed Code = "GENERATION_FAILED"
	CodeTimeout          Code = "TIMEOUT"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeInvariant        Code = "INVARIANT_VIOLATION"
)

// AppError is the base error type with a structured code and optional cause.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// IsCode checks if an error carries a specific error code.
func IsCode(err error, code Code) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// IsRetryable returns true if the error is potentially transient.
func IsRetryable(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	switch appErr.Code {
	case CodeUnavailable, CodeTimeout, CodeRateLimited:
		return true
	default:
		return false
	}
}
