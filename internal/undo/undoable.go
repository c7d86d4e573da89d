// Package undo implements a snapshot-based undo/redo transaction engine.
//
// Objects that want their edits to be undoable implement Undoable and
// register with a System to obtain a StateSaver. Before mutating protected
// state they call StateSaver.Save; while an operation is open the saver
// records the object's pre-mutation snapshot into it, once per operation.
// Undo replays an operation's snapshots and records the states they replace
// into a paired operation on the redo stack, so redo can reverse the undo.
//
// A System is not safe for concurrent use. All mutation, snapshot capture
// and restoration must happen on the goroutine that drives the editing
// commands.
package undo

// Snapshot is an opaque copy of one object's undoable state.
// It is produced and consumed only by the object that owns it.
type Snapshot any

// Undoable is the capability the engine requires from every tracked object.
//
// Implementations must be comparable (normally a pointer type): the engine
// keys its registry and its operations by object identity.
type Undoable interface {
	// CaptureState returns a copy of the current undoable state, deep enough
	// that later mutations of the object do not alter it.
	CaptureState() Snapshot

	// RestoreState replaces the current state with a snapshot previously
	// returned by CaptureState. Ownership of the snapshot passes back to the
	// object.
	RestoreState(Snapshot)
}

// RestoreObserver is an optional extension of Undoable. OperationRestored is
// called once on every restored object after all snapshots of an undo or
// redo have been applied, so derived state can be rebuilt with the whole
// operation in place.
type RestoreObserver interface {
	OperationRestored()
}

// LevelSource supplies the maximum number of operations kept per stack.
// It is consulted on every push, so the bound can change at runtime.
type LevelSource interface {
	UndoLevels() int
}

// DefaultLevels is the undo depth used when no LevelSource is given.
const DefaultLevels = 64

// FixedLevels is a constant LevelSource.
type FixedLevels int

// UndoLevels implements LevelSource.
func (f FixedLevels) UndoLevels() int {
	return int(f)
}
