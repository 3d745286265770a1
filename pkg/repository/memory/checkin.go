package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

type checkinRepository struct {
	mu sync.RWMutex
	// one check-in per (date, user)
	checkins map[types.Date]map[types.UserID]*model.CheckIn
}

func newCheckinRepository() *checkinRepository {
	return &checkinRepository{
		checkins: make(map[types.Date]map[types.UserID]*model.CheckIn),
	}
}

// Upsert creates or updates the check-in for (UserID, Date).
// Last-write-wins by TS: an existing record with a newer TS is kept.
func (r *checkinRepository) Upsert(ctx context.Context, checkin *model.CheckIn) error {
	if err := checkin.Validate(); err != nil {
		return goerr.Wrap(err, "invalid check-in")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.checkins[checkin.Date]
	if !ok {
		day = make(map[types.UserID]*model.CheckIn)
		r.checkins[checkin.Date] = day
	}

	if existing, ok := day[checkin.UserID]; ok && existing.TS > checkin.TS {
		return nil
	}

	// Store a deep copy to prevent external modifications
	checkinCopy := *checkin
	day[checkin.UserID] = &checkinCopy

	return nil
}

// GetByDate retrieves all check-ins on a date, ordered by TS
func (r *checkinRepository) GetByDate(ctx context.Context, date types.Date) ([]*model.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := r.checkins[date]
	checkins := make([]*model.CheckIn, 0, len(day))
	for _, c := range day {
		checkinCopy := *c
		checkins = append(checkins, &checkinCopy)
	}

	sort.Slice(checkins, func(i, j int) bool {
		if checkins[i].TS != checkins[j].TS {
			return checkins[i].TS < checkins[j].TS
		}
		return checkins[i].UserID < checkins[j].UserID
	})

	return checkins, nil
}

// GetByUserDate retrieves one user's check-in for a date
func (r *checkinRepository) GetByUserDate(ctx context.Context, userID types.UserID, date types.Date) (*model.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkin, ok := r.checkins[date][userID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "check-in not found",
			goerr.V("user_id", userID), goerr.V("date", date))
	}

	checkinCopy := *checkin
	return &checkinCopy, nil
}

// GetRange retrieves all check-ins with start <= date <= end, ordered
// by date then TS
func (r *checkinRepository) GetRange(ctx context.Context, start, end types.Date) ([]*model.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var checkins []*model.CheckIn
	for date, day := range r.checkins {
		if date < start || date > end {
			continue
		}
		for _, c := range day {
			checkinCopy := *c
			checkins = append(checkins, &checkinCopy)
		}
	}

	sort.Slice(checkins, func(i, j int) bool {
		if checkins[i].Date != checkins[j].Date {
			return checkins[i].Date < checkins[j].Date
		}
		if checkins[i].TS != checkins[j].TS {
			return checkins[i].TS < checkins[j].TS
		}
		return checkins[i].UserID < checkins[j].UserID
	})

	return checkins, nil
}
