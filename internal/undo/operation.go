package undo

// entry pairs an object with the snapshot it produced for one operation.
type entry struct {
	undoable Undoable
	snapshot Snapshot
}

// Operation is one undo/redo unit: the first pre-mutation snapshot of every
// object that changed while it was open, in recording order, plus a name.
type Operation struct {
	name    string
	entries []entry
	index   map[Undoable]struct{}
}

func newOperation(name string) *Operation {
	return &Operation{
		name:  name,
		index: make(map[Undoable]struct{}),
	}
}

// Name returns the display name assigned when the operation was finished.
func (o *Operation) Name() string {
	return o.name
}

// SaveCount returns how many objects contributed a snapshot.
// An operation with a zero save count is never pushed onto a stack.
func (o *Operation) SaveCount() int {
	return len(o.entries)
}

// Contains reports whether u has a snapshot in this operation.
func (o *Operation) Contains(u Undoable) bool {
	_, ok := o.index[u]
	return ok
}

// recordIfAbsent stores u's current state unless u already has an entry.
// Returns true if a new entry was created.
func (o *Operation) recordIfAbsent(u Undoable) bool {
	if _, ok := o.index[u]; ok {
		return false
	}
	o.index[u] = struct{}{}
	o.entries = append(o.entries, entry{undoable: u, snapshot: u.CaptureState()})
	return true
}

// restoreSnapshot hands every recorded snapshot back to its object.
//
// Only objects for which live returns true are restored; before restoring,
// capture is called so the object's current state can be recorded into the
// paired operation. Restoring one object may make another live (a parent
// re-inserting a child), so entries that are not live are retried until a
// pass makes no progress. Entries still not live are skipped and counted as
// stale. The operation gives up its snapshots and is empty afterwards.
func (o *Operation) restoreSnapshot(live func(Undoable) bool, capture func(Undoable)) (restored []Undoable, stale int) {
	pending := o.entries
	for len(pending) > 0 {
		var retry []entry
		for _, e := range pending {
			if !live(e.undoable) {
				retry = append(retry, e)
				continue
			}
			capture(e.undoable)
			e.undoable.RestoreState(e.snapshot)
			restored = append(restored, e.undoable)
		}
		if len(retry) == len(pending) {
			stale = len(retry)
			break
		}
		pending = retry
	}

	o.entries = nil
	o.index = make(map[Undoable]struct{})
	return restored, stale
}
