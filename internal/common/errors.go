// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Input errors caught before any request is issued.
	ErrNoFiles       = errors.New("no files selected")
	ErrInvalidSeed   = errors.New("seed must be an integer")
	ErrInvalidSize   = errors.New("print size must be a positive whole number of millimeters")
	ErrInvalidResult = errors.New("invalid result id")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
