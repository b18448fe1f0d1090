package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a conditional write lost against the record's
	// current state (status guard failed or a uniqueness constraint fired).
	ErrConflict = errors.New("repository: conflict")
)
