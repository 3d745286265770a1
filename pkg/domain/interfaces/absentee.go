package interfaces

import (
	"context"

	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// AbsenteeRepository provides database operations for absentee records.
//
// Absentees for a date are always replaced wholesale (Replace strategy,
// delete-then-insert as one atomic unit) rather than merged
// incrementally, so the stored set cannot drift from the roster.
type AbsenteeRepository interface {
	// Replace atomically swaps the absentee set for a date.
	// Readers never observe a partially replaced set.
	Replace(ctx context.Context, date types.Date, absentees []*model.Absentee) error

	// GetByDate retrieves the absentees on a date, ordered by username
	GetByDate(ctx context.Context, date types.Date) ([]*model.Absentee, error)
}
