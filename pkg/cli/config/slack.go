package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the chat source configuration
type Slack struct {
	botToken   string
	channelID  string
	rosterPath string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("PULSE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to track check-ins in",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("PULSE_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "roster-file",
			Usage:       "Optional CSV roster file merged into the user table on each sync pass",
			Category:    "Slack",
			Destination: &x.rosterPath,
			Sources:     cli.EnvVars("PULSE_ROSTER_FILE"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.String("roster-file", x.rosterPath),
	)
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// ChannelID returns the tracked channel ID
func (x *Slack) ChannelID() string {
	return x.channelID
}

// RosterPath returns the optional roster CSV path
func (x *Slack) RosterPath() string {
	return x.rosterPath
}

// IsConfigured reports whether the chat source is fully configured
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure creates a Slack service from the configured flags. Returns
// nil if the bot token is not set (sync features will be disabled).
// A token without a channel ID is a configuration error.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" {
		return nil, nil
	}
	if x.channelID == "" {
		return nil, goerr.New("slack-channel-id is required when slack-bot-token is set")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}

	return svc, nil
}
