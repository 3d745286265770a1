package memory

import "github.com/secmon-lab/pulse/pkg/repository"

// ErrNotFound is shared across backends so callers can match it
// without knowing which repository implementation is active.
var ErrNotFound = repository.ErrNotFound
