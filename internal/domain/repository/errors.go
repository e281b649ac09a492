package repository

import "errors"

var (
	// ErrNotFound covers both genuinely missing rows and ownership
	// mismatches; callers must not be able to tell them apart.
	ErrNotFound = errors.New("not found")

	// ErrConflict is a unique-constraint violation that slipped past the
	// pre-write checks (concurrent writers racing on the same code).
	ErrConflict = errors.New("conflict")
)
