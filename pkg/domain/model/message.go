package model

import "github.com/secmon-lab/pulse/pkg/domain/types"

// ChannelMessage is a raw message pulled from the chat source within a
// fetch window, before classification.
type ChannelMessage struct {
	AuthorID types.UserID
	Text     string
	TS       float64 // seconds since epoch, float precision
}
