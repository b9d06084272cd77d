package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "User not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "Task not found")
	ErrEmailTaken         = NewError(ErrCodeConflict, "Email already in use")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "Invalid credentials")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "Unauthorized user")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// AsDomainError extracts the typed error if present.
func AsDomainError(err error) (*Error, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}

// Internal rewraps anything that is not already a domain error, so raw
// lower-level failures never cross the service boundary.
func Internal(err error, message string) error {
	if _, ok := AsDomainError(err); ok {
		return err
	}
	return WrapError(ErrCodeInternal, message, err)
}
