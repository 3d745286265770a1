package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/pulse/pkg/service/quality"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML application configuration. It carries
// tuning that does not fit a single CLI flag: quality scorer overrides
// and sync scheduling defaults.
type AppConfig struct {
	Quality QualityConfig `toml:"quality"`
	Sync    SyncConfig    `toml:"sync"`

	path string
}

// QualityConfig overrides the quality scorer signal sets. Empty lists
// keep the built-in defaults.
type QualityConfig struct {
	Keywords []string `toml:"keywords"`
	Sections []string `toml:"sections"`
}

// SyncConfig tunes the background sync schedule
type SyncConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
	Days            int `toml:"days"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Sync.IntervalSeconds < 0 {
		return goerr.Wrap(ErrInvalidConfig, "sync interval_seconds must not be negative",
			goerr.V("interval_seconds", a.Sync.IntervalSeconds))
	}
	if a.Sync.Days < 0 {
		return goerr.Wrap(ErrInvalidConfig, "sync days must not be negative",
			goerr.V("days", a.Sync.Days))
	}
	return nil
}

// Flags returns CLI flags for the app configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML application configuration file",
			Sources:     cli.EnvVars("PULSE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML file when a path is set. Without a path the
// zero-value config is returned and all defaults apply.
func (a *AppConfig) Configure() (*AppConfig, error) {
	if a.path == "" {
		return a, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V("path", a.path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", a.path))
	}

	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", a.path))
	}

	return a, nil
}

// ScorerOptions converts the quality overrides to scorer options
func (a *AppConfig) ScorerOptions() []quality.Option {
	var opts []quality.Option
	if len(a.Quality.Keywords) > 0 {
		opts = append(opts, quality.WithKeywords(a.Quality.Keywords))
	}
	if len(a.Quality.Sections) > 0 {
		opts = append(opts, quality.WithSections(a.Quality.Sections))
	}
	return opts
}

// SyncInterval returns the configured sync interval, or fallback when
// the config does not set one.
func (a *AppConfig) SyncInterval(fallback time.Duration) time.Duration {
	if a.Sync.IntervalSeconds > 0 {
		return time.Duration(a.Sync.IntervalSeconds) * time.Second
	}
	return fallback
}

// SyncDays returns the configured per-pass day count, or fallback when
// the config does not set one.
func (a *AppConfig) SyncDays(fallback int) int {
	if a.Sync.Days > 0 {
		return a.Sync.Days
	}
	return fallback
}
