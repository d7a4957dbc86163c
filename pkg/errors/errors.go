package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the class of failure an operation ran into
type ErrorType string

const (
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeAPI     ErrorType = "api"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeStorage ErrorType = "storage"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a typed error with an optional HTTP or API code
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without an underlying cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates an Error around err. The message is suffixed with the cause.
func Wrap(errorType ErrorType, err error, message string) *Error {
	if err == nil {
		return New(errorType, message)
	}
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf("%s: %v", message, err),
		Err:     err,
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err (or anything it wraps) is an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}
