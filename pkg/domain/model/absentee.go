package model

import "github.com/secmon-lab/pulse/pkg/domain/types"

// Absentee is a roster user with no recorded check-in for a given date.
// The absentee set for a synced date is always exactly the roster minus
// the users with a check-in on that date, replaced wholesale each sync.
type Absentee struct {
	Date     types.Date   `json:"date"`
	UserID   types.UserID `json:"user_id"`
	Username string       `json:"username"` // denormalized display name
}
