package core

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation represents user input validation failures.
	ErrValidation = errors.New("validation error")
	// ErrPersistence represents failures reported by the store while writing.
	ErrPersistence = errors.New("persistence error")
)

// ValidationError describes malformed or contradictory input. Its message is
// meant to be shown to the client as is.
type ValidationError struct {
	Message string
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps a store failure together with the diagnostic detail
// the store reported for it.
type PersistenceError struct {
	Detail string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrPersistence.Error()
}

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
