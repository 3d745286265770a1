package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulse/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	t.Run("defaults configure without error", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("info", "console", "stdout").Configure()
		gt.NoError(t, err)
		gt.Value(t, closer).NotNil()
		closer()
	})

	t.Run("json format to stderr", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("debug", "json", "stderr").Configure()
		gt.NoError(t, err)
		closer()
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "console", "stdout").Configure()
		gt.Error(t, err)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err)
	})

	t.Run("returns flags", func(t *testing.T) {
		var cfg config.Logger
		gt.Value(t, len(cfg.Flags())).Equal(3)
	})
}
