package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeEncoding   ErrorType = "encoding"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeBlocked    ErrorType = "blocked"
	ErrorTypeInternal   ErrorType = "internal"
)

// Process exit codes reported by the command line tool
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitNetwork    = 3
	ExitEncoding   = 4
	ExitTimeout    = 5
	ExitNotFound   = 6
	ExitBlocked    = 7
)

// AppError represents a structured application error
type AppError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	ExitCode int       `json:"exit_code"`
	Cause    error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches extra context shown alongside the message
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewValidationError creates an error for unusable input
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeValidation,
		Message:  message,
		ExitCode: ExitValidation,
		Cause:    cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeNetwork,
		Message:  message,
		ExitCode: ExitNetwork,
		Cause:    cause,
	}
}

// NewEncodingError creates an error for an encoder that produced no output
func NewEncodingError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeEncoding,
		Message:  message,
		ExitCode: ExitEncoding,
		Cause:    cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeTimeout,
		Message:  message,
		ExitCode: ExitTimeout,
		Cause:    cause,
	}
}

// NewBlockedError creates an error for an export refused by a hard fail
func NewBlockedError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeBlocked,
		Message:  message,
		ExitCode: ExitBlocked,
		Cause:    cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeInternal,
		Message:  message,
		ExitCode: ExitInternal,
		Cause:    cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeNotFound,
		Message:  message,
		ExitCode: ExitNotFound,
		Cause:    cause,
	}
}

// IsType checks if the error chain holds an AppError of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetExitCode extracts the process exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitInternal
}
