package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/cli/config"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/service/quality"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/logging"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var days int
	var dateStr string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "days",
			Usage:       "Number of trailing days to backfill",
			Value:       1,
			Sources:     cli.EnvVars("PULSE_SYNC_DAYS"),
			Destination: &days,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Sync a single date (YYYY-MM-DD) instead of a trailing window",
			Destination: &dateStr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Run a one-shot sync pass against the tracked channel",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			// Initialize repository
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// The chat source is required for sync
			if !slackCfg.IsConfigured() {
				return goerr.New("slack-bot-token and slack-channel-id are required for sync")
			}
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Slack service")
			}

			ucOpts := []usecase.Option{
				usecase.WithChatSource(slackSvc, slackCfg.ChannelID()),
				usecase.WithScorer(quality.NewScorer(app.ScorerOptions()...)),
			}
			if slackCfg.RosterPath() != "" {
				ucOpts = append(ucOpts, usecase.WithRosterFile(slackCfg.RosterPath()))
			}

			uc := usecase.New(repo, ucOpts...)

			if dateStr != "" {
				date, err := types.ParseDate(dateStr)
				if err != nil {
					return goerr.Wrap(err, "invalid date", goerr.V("date", dateStr))
				}
				if err := uc.Sync.SyncDay(ctx, date); err != nil {
					return goerr.Wrap(err, "sync failed", goerr.V("date", date))
				}
				logging.Default().Info("Sync completed", "date", date)
				return nil
			}

			if err := uc.Sync.SyncRecent(ctx, days); err != nil {
				return goerr.Wrap(err, "sync failed", goerr.V("days", days))
			}

			logging.Default().Info("Sync completed", "days", days)
			return nil
		},
	}
}
