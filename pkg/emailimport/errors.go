package emailimport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform means no platform signature matched the sender or
	// subject. The message is shown to API clients as is.
	ErrUnsupportedPlatform = errors.New("Could not detect job platform from email")
	ErrNotFound            = errors.New("pending import not found")
	ErrNotPending          = errors.New("pending import is already resolved")
)

// PersistenceError wraps a storage failure with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
