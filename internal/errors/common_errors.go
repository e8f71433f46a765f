package errors

import (
	"fmt"
)

// ErrorType classifies application errors outside the HTTP surface
type ErrorType string

const (
	// ErrTypeParsing indicates source-data parsing failures
	ErrTypeParsing ErrorType = "PARSING"
)

// AppError represents an application error with classification and cause
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewParsingError creates a parsing error
func NewParsingError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeParsing,
		Message: message,
		Cause:   cause,
	}
}
