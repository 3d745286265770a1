package interfaces

import (
	"context"

	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// CheckInRepository provides database operations for check-ins.
// The store enforces at most one check-in per (user, date).
type CheckInRepository interface {
	// Upsert creates or updates the check-in for (UserID, Date).
	// Last-write-wins by TS: an existing record with a newer TS is kept,
	// which makes the operation idempotent and order-insensitive under
	// re-sync.
	Upsert(ctx context.Context, checkin *model.CheckIn) error

	// GetByDate retrieves all check-ins on a date, ordered by TS
	GetByDate(ctx context.Context, date types.Date) ([]*model.CheckIn, error)

	// GetByUserDate retrieves one user's check-in for a date.
	// Returns ErrNotFound when no check-in is recorded (an absent
	// result, distinct from failure).
	GetByUserDate(ctx context.Context, userID types.UserID, date types.Date) (*model.CheckIn, error)

	// GetRange retrieves all check-ins with start <= date <= end,
	// ordered by date then TS. Used by weekly/monthly aggregation.
	GetRange(ctx context.Context, start, end types.Date) ([]*model.CheckIn, error)
}
