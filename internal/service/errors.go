package service

import "errors"

// Error kinds surfaced to the transport layer. Services wrap these with
// context via fmt.Errorf and %w; callers match with errors.Is.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller has no membership, holds one below the
	// action's minimum role, or attempts to remove an owner membership.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means a unique constraint would be violated, e.g. an
	// email already in use.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the request payload fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariant marks an internal consistency violation. Well-behaved
	// callers should never see it.
	ErrInvariant = errors.New("invariant violation")
)
