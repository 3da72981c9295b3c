// Package errors provides typed errors for embed-report
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrMissingSource indicates a configured report file was absent from the workspace
	ErrMissingSource
	// ErrIO indicates an I/O failure while copying or creating directories
	ErrIO
	// ErrStorage indicates a build registry failure
	ErrStorage
)

// PublishError is the base error type for all embed-report errors
type PublishError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error returns the error message
func (e *PublishError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *PublishError) Unwrap() error {
	return e.Cause
}

// New creates a new PublishError
func New(errType ErrorType, message string, cause error) *PublishError {
	return &PublishError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *PublishError {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *PublishError {
	return New(ErrValidation, message, cause)
}

// MissingSourceError creates a missing source file error
func MissingSourceError(message string, cause error) *PublishError {
	return New(ErrMissingSource, message, cause)
}

// IOError creates an I/O error
func IOError(message string, cause error) *PublishError {
	return New(ErrIO, message, cause)
}

// StorageError creates a build registry error
func StorageError(message string, cause error) *PublishError {
	return New(ErrStorage, message, cause)
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var pubErr *PublishError
	if err == nil {
		return false
	}
	if errors.As(err, &pubErr) {
		return pubErr.Type == errType
	}
	return false
}

// FailsStep returns true if the error should abort the publish step.
// A missing source file is a reported, recoverable condition; everything
// else (config, validation, I/O, storage) is a hard failure.
func FailsStep(err error) bool {
	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		return err != nil
	}
	return pubErr.Type != ErrMissingSource
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrMissingSource:
		return "MISSING_SOURCE"
	case ErrIO:
		return "IO"
	case ErrStorage:
		return "STORAGE"
	default:
		return "UNKNOWN"
	}
}
