package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

type absenteeRepository struct {
	mu        sync.RWMutex
	absentees map[types.Date][]*model.Absentee
}

func newAbsenteeRepository() *absenteeRepository {
	return &absenteeRepository{
		absentees: make(map[types.Date][]*model.Absentee),
	}
}

// Replace atomically swaps the absentee set for a date. The lock makes
// the delete-then-insert a single unit; readers never see a partial set.
func (r *absenteeRepository) Replace(ctx context.Context, date types.Date, absentees []*model.Absentee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]*model.Absentee, 0, len(absentees))
	for _, a := range absentees {
		// Store a deep copy to prevent external modifications
		absenteeCopy := *a
		absenteeCopy.Date = date
		replacement = append(replacement, &absenteeCopy)
	}

	r.absentees[date] = replacement
	return nil
}

// GetByDate retrieves the absentees on a date, ordered by username
func (r *absenteeRepository) GetByDate(ctx context.Context, date types.Date) ([]*model.Absentee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.absentees[date]
	absentees := make([]*model.Absentee, 0, len(stored))
	for _, a := range stored {
		absenteeCopy := *a
		absentees = append(absentees, &absenteeCopy)
	}

	sort.Slice(absentees, func(i, j int) bool {
		if absentees[i].Username != absentees[j].Username {
			return absentees[i].Username < absentees[j].Username
		}
		return absentees[i].UserID < absentees[j].UserID
	})

	return absentees, nil
}
