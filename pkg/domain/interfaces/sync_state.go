package interfaces

import "context"

// SyncStateRepository persists the sync cursor: the watermark timestamp
// marking the lower bound of the next fetch window.
type SyncStateRepository interface {
	// GetCursor returns the persisted cursor timestamp, or 0 when no
	// sync has completed yet.
	GetCursor(ctx context.Context) (float64, error)

	// AdvanceCursor moves the cursor forward to ts. The advance is
	// monotonic: a value at or below the stored cursor is a no-op.
	AdvanceCursor(ctx context.Context, ts float64) error
}
