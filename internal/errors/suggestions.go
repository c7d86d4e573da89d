package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// Usage errors
	ErrOperationInProgress: "Finish the current operation with 'commit <name>' or abandon it with 'cancel'.",
	ErrNoOperation:         "Start an operation with 'begin' before committing.",
	ErrNothingToUndo:       "Make a change first; undo history starts empty in every session.",
	ErrNothingToRedo:       "Redo is only available right after an undo.",
	ErrNodeNotFound:        "Use 'show' to list node IDs in the current map.",
	ErrInvalidKind:         "Valid kinds are 'entity', 'brush' and 'patch'.",
	ErrInvalidKey:          "Spawnarg keys must be non-empty and contain no whitespace.",
	ErrMapNotFound:         "Use 'mapundo maps' to list stored maps.",
	ErrUnknownCommand:      "Type 'help' to list shell commands.",
	ErrInvalidArgument:     "Type 'help' to see the expected arguments.",
	ErrInvalidUndoLevels:   "Use a value such as 'levels 64'.",

	// System errors
	ErrDatabaseCorrupted: "Move the database directory aside (~/.local/share/mapundo/db) and retry.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// An explicit suggestion on a UserError wins over the sentinel table
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
