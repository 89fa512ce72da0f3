package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound is returned when an operation references an unknown task id
	ErrTaskNotFound = errors.New("task not found")
	// ErrSessionNotFound is returned when an operation references an unknown session id
	ErrSessionNotFound = errors.New("work session not found")
	// ErrNoOpenSession is returned when closing a session for a task that has
	// no open session. Callers treat this as a consistency anomaly, not a failure.
	ErrNoOpenSession = errors.New("no open work session for task")
	// ErrSessionAlreadyOpen is returned when opening a session for a task that
	// already has one open. At most one session per task may be open at a time.
	ErrSessionAlreadyOpen = errors.New("task already has an open work session")
)

// ValidationError reports a missing or invalid input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NewMissingFieldError builds a ValidationError for a required field
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
