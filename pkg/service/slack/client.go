package slack

import (
	"context"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/slack-go/slack"
)

// systemBotID is Slack's built-in bot account, never part of the roster
const systemBotID = "USLACKBOT"

// historyPageLimit is the page size for conversations.history
const historyPageLimit = 200

// client implements Service interface
type client struct {
	api *slack.Client
}

// New creates a new Slack service with the provided bot token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &client{api: slack.New(token)}, nil
}

// ListRosterMembers retrieves all human (non-bot, non-deleted) users in
// the workspace. slack-go drains users.list pagination internally.
func (c *client) ListRosterMembers(ctx context.Context) ([]*Member, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	result := make([]*Member, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.ID == systemBotID {
			continue
		}

		realName := u.Profile.RealName
		if realName == "" {
			realName = u.RealName
		}

		result = append(result, &Member{
			ID:       u.ID,
			Name:     u.Name,
			RealName: realName,
			Email:    u.Profile.Email,
			Title:    u.Profile.Title,
			Timezone: u.TZ,
		})
	}

	return result, nil
}

// FetchMessages retrieves messages from conversations.history within
// [oldest, latest], draining cursor pagination fully. A pagination
// failure aborts the whole fetch so the caller retries the same window.
func (c *client) FetchMessages(ctx context.Context, channelID string, oldest, latest float64) ([]*model.ChannelMessage, error) {
	var messages []*model.ChannelMessage
	var cursor string

	for {
		params := &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Oldest:    formatTS(oldest),
			Latest:    formatTS(latest),
			Limit:     historyPageLimit,
			Inclusive: true,
			Cursor:    cursor,
		}

		resp, err := c.api.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversation history",
				goerr.V("channel_id", channelID),
				goerr.V("cursor", cursor),
			)
		}

		for _, msg := range resp.Messages {
			if msg.Type != "message" || msg.SubType != "" {
				// join/leave events and other system subtypes
				continue
			}
			if msg.User == "" {
				continue
			}

			ts, err := strconv.ParseFloat(msg.Timestamp, 64)
			if err != nil {
				return nil, goerr.Wrap(err, "unexpected message timestamp",
					goerr.V("ts", msg.Timestamp),
				)
			}

			messages = append(messages, &model.ChannelMessage{
				AuthorID: types.UserID(msg.User),
				Text:     msg.Text,
				TS:       ts,
			})
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.ResponseMetaData.NextCursor
		if cursor == "" {
			return nil, goerr.New("pagination cursor missing with has_more set",
				goerr.V("channel_id", channelID),
			)
		}
	}

	return messages, nil
}

func formatTS(ts float64) string {
	return strconv.FormatFloat(ts, 'f', 6, 64)
}
