// Package errors provides consistent error types for mapundo.
// It defines two main categories: UserError (fixable by the user) and
// SystemError (storage or environment failures the user cannot fix directly).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrOperationInProgress = errors.New("an operation is already in progress")
	ErrNoOperation         = errors.New("no operation in progress")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrNothingToRedo       = errors.New("nothing to redo")
	ErrNodeNotFound        = errors.New("node not found")
	ErrInvalidKind         = errors.New("invalid node kind")
	ErrInvalidKey          = errors.New("invalid spawnarg key")
	ErrMapNotFound         = errors.New("map not found")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidUndoLevels   = errors.New("undo levels must be a positive integer")
	ErrDatabaseCorrupted   = errors.New("database corrupted")
)

// UserError represents an error that the user can fix.
// Examples: unknown node ID, malformed shell command, bad undo level.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The argument that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error  // Sentinel or underlying error (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with argument context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// UserErrorFrom builds a UserError around a sentinel, reusing the sentinel's
// suggestion. The value is quoted into the message when non-empty.
func UserErrorFrom(sentinel error, field, value string) *UserError {
	return &UserError{
		Message:    sentinel.Error(),
		Field:      field,
		Value:      value,
		Suggestion: Suggestions[sentinel],
		Cause:      sentinel,
	}
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: database open failure, unreadable config file.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is is re-exported from the standard errors package for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Chain returns the full error chain as a slice of error messages.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}
