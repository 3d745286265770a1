package memory

import (
	"context"
	"sync"
)

type syncStateRepository struct {
	mu     sync.RWMutex
	cursor float64
}

func newSyncStateRepository() *syncStateRepository {
	return &syncStateRepository{}
}

// GetCursor returns the persisted cursor, or 0 when no sync has
// completed yet
func (r *syncStateRepository) GetCursor(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cursor, nil
}

// AdvanceCursor moves the cursor forward monotonically; a value at or
// below the stored cursor is a no-op
func (r *syncStateRepository) AdvanceCursor(ctx context.Context, ts float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ts > r.cursor {
		r.cursor = ts
	}
	return nil
}
