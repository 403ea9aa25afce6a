package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
log_level = "debug"

[database]
host = "db.internal"
port = 5433

[notify]
telegram_token = "tok"

[scheduler]
sweep_interval = "30s"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 30*time.Second, cfg.Scheduler.SweepInterval.Duration)

		// Untouched sections keep their defaults.
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 90, cfg.Scheduler.ArchiveRetentionDays)

		require.NoError(t, cfg.Validate())
	})

	t.Run("env overrides win over the file", func(t *testing.T) {
		path := writeConfig(t, `
[redis]
addr = "file-redis:6379"

[notify]
telegram_token = "tok"
`)
		t.Setenv("FOLIOBOT_REDIS_ADDR", "env-redis:6379")
		t.Setenv("FOLIOBOT_SCHEDULER_SWEEP_INTERVAL", "2m")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2*time.Minute, cfg.Scheduler.SweepInterval.Duration)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.Notify.TelegramToken = "tok"
		return cfg
	}

	t.Run("defaults plus a token validate", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("collects every problem", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "loud"
		cfg.Redis.Addr = ""
		cfg.Scheduler.SweepInterval.Duration = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_level")
		assert.Contains(t, err.Error(), "redis")
		assert.Contains(t, err.Error(), "sweep_interval")
	})

	t.Run("telegram token is required", func(t *testing.T) {
		cfg := Defaults()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telegram_token")
	})

	t.Run("gemini key only required when enabled", func(t *testing.T) {
		cfg := valid()
		cfg.Gemini.Enabled = true
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gemini")

		cfg.Gemini.APIKey = "key"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("s3 only checked when enabled", func(t *testing.T) {
		cfg := valid()
		cfg.S3.Enabled = true
		cfg.S3.Bucket = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
	})
}
