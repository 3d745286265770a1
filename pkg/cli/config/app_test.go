package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulse/pkg/cli/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pulse.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAppConfig_Configure(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		app, err := config.NewAppConfigForTest("").Configure()
		gt.NoError(t, err)
		gt.Value(t, len(app.ScorerOptions())).Equal(0)
		gt.Value(t, app.SyncInterval(5*time.Minute)).Equal(5 * time.Minute)
		gt.Value(t, app.SyncDays(1)).Equal(1)
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		_, err := config.NewAppConfigForTest("/nonexistent/pulse.toml").Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})

	t.Run("loads quality and sync sections", func(t *testing.T) {
		path := writeConfigFile(t, `
[quality]
keywords = ["deployed", "shipped"]
sections = ["status:"]

[sync]
interval_seconds = 600
days = 3
`)
		app, err := config.NewAppConfigForTest(path).Configure()
		gt.NoError(t, err)
		gt.Value(t, app.Quality.Keywords).Equal([]string{"deployed", "shipped"})
		gt.Value(t, len(app.ScorerOptions())).Equal(2)
		gt.Value(t, app.SyncInterval(0).String()).Equal("10m0s")
		gt.Value(t, app.SyncDays(1)).Equal(3)
	})

	t.Run("rejects invalid TOML", func(t *testing.T) {
		path := writeConfigFile(t, "[quality\nkeywords = [")
		_, err := config.NewAppConfigForTest(path).Configure()
		gt.Error(t, err)
	})

	t.Run("rejects negative sync values", func(t *testing.T) {
		path := writeConfigFile(t, "[sync]\ninterval_seconds = -1\n")
		_, err := config.NewAppConfigForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})
}
