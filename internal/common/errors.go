package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Document-level failures are fatal to a whole parse call; everything below
// section granularity is contained and surfaces as fewer extracted items.
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrUnopenable         = errors.New("document cannot be opened")
	ErrSizeLimit          = errors.New("document exceeds page limit")
	ErrUnextractable      = errors.New("no extractable text content")
	ErrServiceUnavailable = errors.New("extraction service unavailable")
	ErrValidation         = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
