package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the underlying storage could not be opened or
	// migrated. Fatal for the data layer of the current session.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrWriteFailed wraps failed inserts, updates, and deletes.
	ErrWriteFailed = errors.New("storage write failed")

	// ErrInvalidInput rejects writes with a missing required field before
	// any storage call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when an update or delete matches no row.
	ErrNotFound = errors.New("not found")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

func writeFailed(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrWriteFailed, err))
}
