package undo

// EventType identifies what happened to the undo history.
type EventType int

const (
	// OperationRecorded fires when Finish pushed a non-empty operation.
	OperationRecorded EventType = iota
	// OperationUndone fires after an operation has been undone.
	OperationUndone
	// OperationRedone fires after an operation has been redone.
	OperationRedone
	// AllOperationsCleared fires when both stacks were emptied.
	AllOperationsCleared
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case OperationRecorded:
		return "recorded"
	case OperationUndone:
		return "undone"
	case OperationRedone:
		return "redone"
	case AllOperationsCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers synchronously, in-line with the call
// that caused it. Operation is empty for AllOperationsCleared.
type Event struct {
	Type      EventType
	Operation string
}
