package repo_errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStatusChanged is returned when a conditional status update finds
	// the row in a different state than the caller expected.
	ErrStatusChanged = errors.New("status changed")
)
