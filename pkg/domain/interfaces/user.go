package interfaces

import (
	"context"

	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// UserRepository provides database operations for roster users.
//
// N+1 Prevention Policy:
// - Roster sync always uses UpsertMany for batch writes
// - No delete operation: roster membership is soft presence only
type UserRepository interface {
	// UpsertMany creates or updates multiple users in one operation
	UpsertMany(ctx context.Context, users []*model.User) error

	// GetAll retrieves all users ordered by display name
	GetAll(ctx context.Context) ([]*model.User, error)

	// GetByID retrieves a single user by ID.
	// Returns ErrNotFound if the user does not exist.
	GetByID(ctx context.Context, id types.UserID) (*model.User, error)
}
