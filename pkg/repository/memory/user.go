package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

// UpsertMany creates or updates multiple users (upsert operation)
func (r *userRepository) UpsertMany(ctx context.Context, users []*model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range users {
		// Store a deep copy to prevent external modifications
		userCopy := *user
		r.users[user.ID] = &userCopy
	}

	return nil
}

// GetAll retrieves all users ordered by display name
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		// Return a deep copy to prevent external modifications
		userCopy := *user
		users = append(users, &userCopy)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName() != users[j].DisplayName() {
			return users[i].DisplayName() < users[j].DisplayName()
		}
		return users[i].ID < users[j].ID
	})

	return users, nil
}

// GetByID retrieves a single user by ID
func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	// Return a deep copy to prevent external modifications
	userCopy := *user
	return &userCopy, nil
}
