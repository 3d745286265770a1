package model

import (
	"time"

	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// User represents a roster member eligible to check in. Users are
// upserted whenever seen in a roster fetch and never deleted; bots and
// deleted accounts are filtered before reaching the store.
type User struct {
	ID        types.UserID
	Name      string // chat username (e.g. "john.doe")
	RealName  string // display name (e.g. "John Doe")
	Email     string
	Title     string
	Timezone  string
	UpdatedAt time.Time // last synchronized from the roster source
}

// DisplayName returns the name used for ordering and report output
func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}
