package undo

import (
	"log/slog"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/signal"
)

// State is the recording state of a System.
type State int

const (
	// StateIdle means no operation is open.
	StateIdle State = iota
	// StateRecordingUndo means an edit is being recorded onto the undo stack.
	StateRecordingUndo
	// StateRecordingRedo means an undo is being replayed and the replaced
	// states are being recorded onto the redo stack.
	StateRecordingRedo
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecordingUndo:
		return "recording-undo"
	case StateRecordingRedo:
		return "recording-redo"
	default:
		return "unknown"
	}
}

// System owns the undo and redo stacks and the registry of state savers,
// and drives undo and redo by replaying snapshots.
type System struct {
	undo   *Stack
	redo   *Stack
	active *Stack

	savers map[Undoable]*StateSaver
	events *signal.Bus[Event]
	levels LevelSource
	logger *slog.Logger
}

// Option configures a System.
type Option func(*System)

// WithLogger routes the system's diagnostics to logger instead of the
// package-level logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// NewSystem creates a System whose stacks are bounded by levels.
// A nil levels uses DefaultLevels.
func NewSystem(levels LevelSource, opts ...Option) *System {
	if levels == nil {
		levels = FixedLevels(DefaultLevels)
	}
	s := &System{
		savers: make(map[Undoable]*StateSaver),
		events: signal.New[Event](),
		levels: levels,
	}
	s.undo = newStack("undo", levels)
	s.redo = newStack("redo", levels)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.Logger()
}

// GetStateSaver registers u and returns its saver. Registering an object
// twice returns the existing saver. If an operation is open the saver joins
// it immediately, so objects created mid-operation are captured too.
func (s *System) GetStateSaver(u Undoable) *StateSaver {
	if saver, ok := s.savers[u]; ok {
		return saver
	}
	saver := &StateSaver{undoable: u, stack: s.active}
	s.savers[u] = saver
	return saver
}

// ReleaseStateSaver unregisters u. Its saver stops recording, and snapshots
// of u held by finished operations are no longer replayed unless u is
// registered again before they are. Releasing an unknown object is a no-op.
func (s *System) ReleaseStateSaver(u Undoable) {
	saver, ok := s.savers[u]
	if !ok {
		return
	}
	saver.release()
	delete(s.savers, u)
}

// Tracked reports whether u is currently registered.
func (s *System) Tracked(u Undoable) bool {
	_, ok := s.savers[u]
	return ok
}

// TrackedCount returns the number of registered objects.
func (s *System) TrackedCount() int {
	return len(s.savers)
}

// Start opens a new operation on the undo stack. It clears redo history
// and makes room on the undo stack. Rejected while an operation is open.
func (s *System) Start() {
	if s.active != nil {
		s.log().Warn("cannot start operation",
			logging.KeyError, errors.ErrOperationInProgress,
			logging.KeyStack, s.active.label)
		return
	}

	s.redo.clear()
	if evicted := s.undo.makeRoom(); evicted > 0 {
		s.log().Debug("evicted oldest operations", logging.KeyCount, evicted)
	}
	s.startRecording(s.undo)
}

// OperationStarted reports whether an operation is open.
func (s *System) OperationStarted() bool {
	return s.active != nil
}

// State returns the current recording state.
func (s *System) State() State {
	switch s.active {
	case nil:
		return StateIdle
	case s.undo:
		return StateRecordingUndo
	default:
		return StateRecordingRedo
	}
}

// Finish closes the operation opened by Start and names it. An operation
// that recorded nothing is discarded. Returns true and emits
// OperationRecorded if something was recorded.
func (s *System) Finish(name string) bool {
	if s.active != s.undo {
		s.log().Warn("cannot finish operation",
			logging.KeyError, errors.ErrNoOperation,
			logging.KeyOperation, name)
		return false
	}

	if !s.finishRecording(s.undo, name) {
		s.log().Debug("operation recorded no changes", logging.KeyOperation, name)
		return false
	}

	s.log().Info(name, logging.KeyDepth, s.undo.Len())
	s.events.Publish(Event{Type: OperationRecorded, Operation: name})
	return true
}

// Cancel discards the open operation, if any, without recording it.
func (s *System) Cancel() {
	if s.active == nil {
		return
	}
	s.active.cancel()
	s.setActiveStack(nil)
}

// Undo reverts the most recent operation and records the reverted states
// as a redo operation of the same name. Rejected while an operation is open;
// a no-op when there is nothing to undo.
func (s *System) Undo() {
	if s.active != nil {
		s.log().Warn("Undo not available while an operation is still in progress",
			logging.KeyError, errors.ErrOperationInProgress)
		return
	}
	if s.undo.Empty() {
		s.log().Info("Undo: no undo available", logging.KeyError, errors.ErrNothingToUndo)
		return
	}

	op := s.undo.back()
	name := op.name
	s.log().Info("Undo: "+name, logging.KeyOperation, name)

	s.startRecording(s.redo)
	s.replay(op)
	s.finishRecording(s.redo, name)
	s.undo.popBack()

	s.events.Publish(Event{Type: OperationUndone, Operation: name})
}

// Redo re-applies the most recently undone operation, recording the
// replaced states back onto the undo stack. Rejected while an operation is
// open; a no-op when there is nothing to redo.
func (s *System) Redo() {
	if s.active != nil {
		s.log().Warn("Redo not available while an operation is still in progress",
			logging.KeyError, errors.ErrOperationInProgress)
		return
	}
	if s.redo.Empty() {
		s.log().Info("Redo: no redo available", logging.KeyError, errors.ErrNothingToRedo)
		return
	}

	op := s.redo.back()
	name := op.name
	s.log().Info("Redo: "+name, logging.KeyOperation, name)

	s.startRecording(s.undo)
	s.replay(op)
	s.finishRecording(s.undo, name)
	s.redo.popBack()

	s.events.Publish(Event{Type: OperationRedone, Operation: name})
}

// Clear abandons any open operation and empties both stacks. Registered
// objects stay registered.
func (s *System) Clear() {
	s.setActiveStack(nil)
	s.undo.clear()
	s.redo.clear()
	s.events.Publish(Event{Type: AllOperationsCleared})
}

// Subscribe registers handler for undo events.
func (s *System) Subscribe(handler func(Event)) signal.Token {
	return s.events.Subscribe(handler)
}

// Unsubscribe removes the subscription identified by token.
func (s *System) Unsubscribe(token signal.Token) bool {
	return s.events.Unsubscribe(token)
}

// Levels returns the current stack bound.
func (s *System) Levels() int {
	return s.undo.capacity()
}

// UndoDepth returns the number of operations that can be undone.
func (s *System) UndoDepth() int {
	return s.undo.Len()
}

// RedoDepth returns the number of operations that can be redone.
func (s *System) RedoDepth() int {
	return s.redo.Len()
}

// UndoName returns the name of the operation Undo would revert.
func (s *System) UndoName() (string, bool) {
	if op := s.undo.back(); op != nil {
		return op.name, true
	}
	return "", false
}

// RedoName returns the name of the operation Redo would re-apply.
func (s *System) RedoName() (string, bool) {
	if op := s.redo.back(); op != nil {
		return op.name, true
	}
	return "", false
}

// UndoNames returns the undo history, oldest first.
func (s *System) UndoNames() []string {
	return s.undo.Names()
}

// RedoNames returns the redo history, oldest first.
func (s *System) RedoNames() []string {
	return s.redo.Names()
}

func (s *System) startRecording(stack *Stack) {
	stack.start(provisionalName)
	s.setActiveStack(stack)
}

func (s *System) finishRecording(stack *Stack, name string) bool {
	changed := stack.finish(name)
	s.setActiveStack(nil)
	return changed
}

// replay restores op into the objects it recorded, capturing their current
// states into the active stack first.
func (s *System) replay(op *Operation) {
	restored, stale := op.restoreSnapshot(s.Tracked, func(u Undoable) {
		s.active.save(u)
	})
	if stale > 0 {
		s.log().Debug("skipped snapshots of released objects",
			logging.KeyOperation, op.name, logging.KeyCount, stale)
	}

	for _, u := range restored {
		if obs, ok := u.(RestoreObserver); ok {
			obs.OperationRestored()
		}
	}
}

// setActiveStack points every registered saver at stack.
func (s *System) setActiveStack(stack *Stack) {
	s.active = stack
	for _, saver := range s.savers {
		saver.setStack(stack)
	}
}
