package store

import (
	"errors"
	"fmt"
)

// PersistenceError reports that the backing medium could not be read,
// written or decoded. Callers must treat the operation as not applied.
type PersistenceError struct {
	// Op is the failed step: open, begin, read, write, commit, decode, encode.
	Op string

	// Key is the logical key involved, if any.
	Key string

	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err is or wraps a *PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

var (
	// ErrStoreFull is returned by Append when the collection is at its cap.
	ErrStoreFull = errors.New("submission store is full")

	// ErrDuplicateSerial is returned by Append when duplicate checking is
	// enabled and the serial number is already stored.
	ErrDuplicateSerial = errors.New("serial number already exists")
)
