package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/pulse/pkg/cli/config"
	httpctrl "github.com/secmon-lab/pulse/pkg/controller/http"
	"github.com/secmon-lab/pulse/pkg/service/quality"
	"github.com/secmon-lab/pulse/pkg/service/worker"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/logging"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var apiKey string
	var syncInterval time.Duration
	var syncDays int
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PULSE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Static API key required on /api/* requests (X-API-Key header)",
			Sources:     cli.EnvVars("PULSE_API_KEY"),
			Destination: &apiKey,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval between background sync passes",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("PULSE_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
		&cli.IntFlag{
			Name:        "sync-days",
			Usage:       "Number of trailing days each background pass covers",
			Value:       1,
			Sources:     cli.EnvVars("PULSE_SYNC_DAYS"),
			Destination: &syncDays,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server with background sync",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			ucOpts := []usecase.Option{
				usecase.WithScorer(quality.NewScorer(app.ScorerOptions()...)),
			}

			// Initialize Slack chat source if the bot token is provided
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Slack service")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithChatSource(slackSvc, slackCfg.ChannelID()))
				logging.Default().Info("Slack chat source enabled", "slack", slackCfg)
			} else {
				logging.Default().Info("Slack Bot Token not configured, sync features will be disabled")
			}

			if slackCfg.RosterPath() != "" {
				ucOpts = append(ucOpts, usecase.WithRosterFile(slackCfg.RosterPath()))
			}

			uc := usecase.New(repo, ucOpts...)

			// Start the background sync worker when the chat source is
			// available. Flags win over the TOML config.
			var syncWorker *worker.SyncWorker
			if uc.Sync.Enabled() {
				interval := syncInterval
				if !c.IsSet("sync-interval") {
					interval = app.SyncInterval(syncInterval)
				}
				days := syncDays
				if !c.IsSet("sync-days") {
					days = app.SyncDays(syncDays)
				}

				syncWorker = worker.NewSyncWorker(uc.Sync, interval, days)
				if err := syncWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start sync worker")
				}
			}

			if apiKey == "" {
				logging.Default().Warn("API key not configured, /api/* will respond 503")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithAPIKey(apiKey)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the sync worker first
				if syncWorker != nil {
					syncWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
