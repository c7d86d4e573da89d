package undo

// StateSaver is the per-object proxy between an Undoable and the operation
// that is currently accepting snapshots. Obtain one with System.GetStateSaver.
type StateSaver struct {
	undoable Undoable
	stack    *Stack // stack accepting snapshots, nil while idle
	released bool
}

// Save records the owner's current state into the active operation.
// Call it immediately before mutating protected state. Outside an operation
// it does nothing; inside one only the first call per operation records.
func (s *StateSaver) Save() {
	if s == nil || s.released || s.stack == nil {
		return
	}
	s.stack.save(s.undoable)
}

// Recording reports whether a Save call would currently reach an operation.
func (s *StateSaver) Recording() bool {
	return s != nil && !s.released && s.stack != nil
}

func (s *StateSaver) setStack(stack *Stack) {
	if s.released {
		return
	}
	s.stack = stack
}

func (s *StateSaver) release() {
	s.stack = nil
	s.released = true
}
