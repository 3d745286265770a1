package repository

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound marks an absent record across all repository backends.
// Callers match it with errors.Is regardless of the active backend.
var ErrNotFound = goerr.New("record not found")
