package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemField indicates a name or description violates domain constraints.
	ErrInvalidItemField = errors.New("invalid item field")

	// ErrVersionConflict indicates a concurrent update won the optimistic
	// concurrency race; the caller's copy of the item is stale.
	ErrVersionConflict = errors.New("item version conflict")
)
