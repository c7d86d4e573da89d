package undo

// provisionalName labels an operation between start and finish.
const provisionalName = "unnamedCommand"

// Stack is a bounded sequence of finished operations, most recent last,
// plus at most one operation being filled.
type Stack struct {
	label   string
	ops     []*Operation
	pending *Operation
	levels  LevelSource
}

func newStack(label string, levels LevelSource) *Stack {
	return &Stack{label: label, levels: levels}
}

// Len returns the number of finished operations.
func (s *Stack) Len() int {
	return len(s.ops)
}

// Empty reports whether the stack holds no finished operations.
func (s *Stack) Empty() bool {
	return len(s.ops) == 0
}

// Names returns the operation names, oldest first.
func (s *Stack) Names() []string {
	names := make([]string, len(s.ops))
	for i, op := range s.ops {
		names[i] = op.name
	}
	return names
}

// capacity returns the current bound, never less than one.
func (s *Stack) capacity() int {
	n := s.levels.UndoLevels()
	if n < 1 {
		return 1
	}
	return n
}

// start opens a fresh, empty operation.
func (s *Stack) start(name string) {
	s.pending = newOperation(name)
}

// save records u into the open operation.
func (s *Stack) save(u Undoable) bool {
	if s.pending == nil {
		return false
	}
	return s.pending.recordIfAbsent(u)
}

// finish closes the open operation. If it recorded anything it is renamed
// and pushed, evicting the oldest operations beyond capacity.
// Returns true if an operation was pushed.
func (s *Stack) finish(name string) bool {
	op := s.pending
	s.pending = nil
	if op == nil || op.SaveCount() == 0 {
		return false
	}

	op.name = name
	s.ops = append(s.ops, op)
	s.trim(s.capacity())
	return true
}

// cancel discards the open operation without pushing it.
func (s *Stack) cancel() {
	s.pending = nil
}

// makeRoom evicts from the oldest end until one more operation fits.
func (s *Stack) makeRoom() int {
	return s.trim(s.capacity() - 1)
}

// trim evicts oldest operations until at most n remain.
func (s *Stack) trim(n int) int {
	if n < 0 {
		n = 0
	}
	evicted := len(s.ops) - n
	if evicted <= 0 {
		return 0
	}
	for i := 0; i < evicted; i++ {
		s.ops[i] = nil
	}
	s.ops = s.ops[evicted:]
	return evicted
}

func (s *Stack) back() *Operation {
	if len(s.ops) == 0 {
		return nil
	}
	return s.ops[len(s.ops)-1]
}

func (s *Stack) popBack() {
	if len(s.ops) == 0 {
		return
	}
	s.ops[len(s.ops)-1] = nil
	s.ops = s.ops[:len(s.ops)-1]
}

func (s *Stack) clear() {
	s.ops = nil
	s.pending = nil
}
