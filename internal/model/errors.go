package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures as seen by callers of the stores and services.
type ErrorCode string

const (
	// ErrCodeValidation is missing or blank input, caught before any network call.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeRequest is a transport failure or a non-2xx response.
	ErrCodeRequest ErrorCode = "REQUEST"
)

// Error is the single error type surfaced to screens and commands.
type Error struct {
	Code    ErrorCode
	Message string
	// Status is the HTTP status for request errors, 0 when the request never got a response.
	Status int
	// Remote is set when Message came from the server's error body.
	Remote bool
	Err    error
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

// NewValidationError builds a VALIDATION error.
func NewValidationError(message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message}
}

// NewRequestError builds a REQUEST error.
func NewRequestError(message string, status int, err error) *Error {
	return &Error{
		Code:    ErrCodeRequest,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// IsError reports whether err carries the given code.
func IsError(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// ServerMessage returns the server-provided message carried by err, or "".
func ServerMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Remote {
		return e.Message
	}
	return ""
}
