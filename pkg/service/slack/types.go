package slack

import (
	"context"

	"github.com/secmon-lab/pulse/pkg/domain/model"
)

// Service provides the chat source contract the sync engine needs:
// a fully drained roster listing and a paginated message window.
type Service interface {
	// ListRosterMembers retrieves all human workspace members.
	// Pagination is fully drained before return; bots, deleted accounts
	// and the platform system bot are filtered out.
	ListRosterMembers(ctx context.Context) ([]*Member, error)

	// FetchMessages retrieves channel messages with oldest <= ts <=
	// latest (both bounds inclusive), draining pagination fully.
	// Non-human system events (join/leave subtypes) are filtered out.
	FetchMessages(ctx context.Context, channelID string, oldest, latest float64) ([]*model.ChannelMessage, error)
}

// Member represents a human workspace member from the roster source
type Member struct {
	ID       string
	Name     string
	RealName string
	Email    string
	Title    string
	Timezone string
}
