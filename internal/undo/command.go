package undo

import "github.com/manav03panchal/mapundo/internal/errors"

// Do runs fn inside a new operation named name. The operation is finished
// when fn returns nil and cancelled when it returns an error or panics, so
// an aborted command leaves no partial history behind. The changes fn made
// before failing are not rolled back.
func (s *System) Do(name string, fn func() error) (err error) {
	if s.active != nil {
		return errors.ErrOperationInProgress
	}

	s.Start()
	done := false
	defer func() {
		if !done && s.active == s.undo {
			s.Cancel()
		}
	}()

	if err = fn(); err != nil {
		return err
	}
	done = true
	s.Finish(name)
	return nil
}
