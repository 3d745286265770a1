package types

import "github.com/m-mizutani/goerr/v2"

// UserID represents a stable external chat user ID (e.g. Slack "U..." ID)
type UserID string

// Validate checks if the UserID is non-empty
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of the UserID
func (u UserID) String() string {
	return string(u)
}
