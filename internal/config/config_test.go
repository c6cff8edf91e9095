package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminderd/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 60, cfg.Poller.CheckInterval)
	assert.Equal(t, 300, cfg.Poller.RefreshInterval)
	assert.Equal(t, config.ChannelConsole, cfg.Notify.Channel)
	assert.False(t, cfg.Digest.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: http://reminders.internal:9000
poller:
  check_interval: 30
notify:
  channel: telegram
  telegram:
    bot_token: tok
    chat_id: "42"
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://reminders.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Poller.CheckInterval)
	assert.Equal(t, config.ChannelTelegram, cfg.Notify.Channel)
	assert.Equal(t, "tok", cfg.Notify.Telegram.BotToken)

	// Untouched keys keep their defaults.
	assert.Equal(t, 300, cfg.Poller.RefreshInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: http://from-file\n"), 0o600))

	t.Setenv("REMINDERD_BACKEND_BASE_URL", "http://from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.Backend.BaseURL)
	assert.Equal(t, "env-token", cfg.Notify.Telegram.BotToken)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing backend url", func(t *testing.T) {
		cfg := valid()
		cfg.Backend.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive intervals", func(t *testing.T) {
		cfg := valid()
		cfg.Poller.CheckInterval = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Poller.RefreshInterval = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown channel", func(t *testing.T) {
		cfg := valid()
		cfg.Notify.Channel = "pigeon"
		assert.Error(t, cfg.Validate())
	})

	t.Run("telegram channel requires credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Notify.Channel = config.ChannelTelegram
		assert.Error(t, cfg.Validate())

		cfg.Notify.Telegram.BotToken = "tok"
		cfg.Notify.Telegram.ChatID = "42"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("digest provider checks", func(t *testing.T) {
		cfg := valid()
		cfg.Digest.Enabled = true
		cfg.Digest.Provider = config.ProviderDeepSeek
		assert.Error(t, cfg.Validate())

		cfg.Digest.DeepSeek.APIKey = "key"
		assert.NoError(t, cfg.Validate())

		cfg.Digest.Provider = "unknown"
		assert.Error(t, cfg.Validate())
	})
}
