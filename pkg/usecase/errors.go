package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// ErrCheckinNotFound marks the absent-result outcome of a per-user
	// lookup: no check-in recorded, as opposed to a query failure.
	ErrCheckinNotFound = errors.New("check-in not found")

	ErrUserNotFound = errors.New("user not found")
)
