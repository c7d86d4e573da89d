package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates input the user can fix: bad arguments, unknown
	// nodes, invalid names.
	CategoryUser
	// CategoryState indicates a valid request the undo engine cannot serve
	// in its current state, such as undo with an empty history.
	CategoryState
	// CategorySystem indicates a system-level error (disk, permissions, corruption).
	CategorySystem
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryState:
		return "state"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// stateErrors are the sentinels that classify as CategoryState.
var stateErrors = []error{
	ErrOperationInProgress,
	ErrNoOperation,
	ErrNothingToUndo,
	ErrNothingToRedo,
}

// systemErrnos are the errno values that classify as CategorySystem.
var systemErrnos = map[syscall.Errno]bool{
	syscall.ENOSPC: true,
	syscall.EACCES: true,
	syscall.EPERM:  true,
	syscall.EIO:    true,
	syscall.EROFS:  true,
}

// Classify determines the category of an error. State sentinels win over
// the UserError wrapper they usually travel in.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	for _, s := range stateErrors {
		if errors.Is(err, s) {
			return CategoryState
		}
	}
	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) || errors.Is(err, ErrDatabaseCorrupted) {
		return CategorySystem
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && systemErrnos[errno] {
		return CategorySystem
	}
	return CategoryUnknown
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser, CategoryState:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	default:
		return msg
	}
}
