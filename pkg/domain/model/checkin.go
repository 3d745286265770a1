package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// CheckIn is a single classified status message attributed to one user
// on one calendar date. At most one CheckIn exists per (UserID, Date);
// a later message on the same date overwrites the earlier one.
type CheckIn struct {
	UserID   types.UserID  `json:"user_id"`
	Username string        `json:"username"` // denormalized snapshot at submission time
	TS       float64       `json:"ts"`
	Date     types.Date    `json:"date"` // calendar date of TS in UTC
	Content  string        `json:"content"`
	Quality  types.Quality `json:"quality"`
}

// Validate checks the CheckIn invariants before persistence
func (c *CheckIn) Validate() error {
	if err := c.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid check-in")
	}
	if err := c.Date.Validate(); err != nil {
		return goerr.Wrap(err, "invalid check-in")
	}
	if err := c.Quality.Validate(); err != nil {
		return goerr.Wrap(err, "invalid check-in")
	}
	if c.Content == "" {
		return goerr.New("check-in content cannot be empty", goerr.V("user_id", c.UserID))
	}
	return nil
}
