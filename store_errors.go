package history

import (
	"errors"
	"fmt"
)

// ErrNoUpdater is returned by TryUpdate when called with a nil updater.
var ErrNoUpdater = errors.New("history: updater is required")

// UpdateError captures the history position an updater failed against.
type UpdateError struct {
	Cursor int
	Err    error
}

func (e *UpdateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("history: update at cursor %d: %v", e.Cursor, e.Err)
}

func (e *UpdateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapUpdateError(cursor int, err error) error {
	if err == nil {
		return nil
	}
	var updateErr *UpdateError
	if errors.As(err, &updateErr) {
		return err
	}
	return &UpdateError{Cursor: cursor, Err: err}
}
