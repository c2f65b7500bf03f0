package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RUNPOD_API_KEY", "rp-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "123456")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "rp-key", cfg.RunPodAPIKey)
	assert.Equal(t, "bot-token", cfg.TelegramToken)
	assert.Equal(t, int64(123456), cfg.AlertChatID)
	assert.Equal(t, 60*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, DefaultGPUTypes, cfg.PreferredGPUs)
	assert.Empty(t, cfg.AllowedChatIDs)
	assert.Empty(t, cfg.AllowedUserIDs)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, 8443, cfg.WebhookPort)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECK_INTERVAL_MINUTES", "5")
	t.Setenv("SESSION_TTL_MINUTES", "3")
	t.Setenv("ALLOWED_CHAT_IDS", "1, 2,3")
	t.Setenv("ALLOWED_USER_IDS", "42")
	t.Setenv("PREFERRED_GPUS", "NVIDIA L40S, NVIDIA H100 PCIe")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com")
	t.Setenv("WEBHOOK_PORT", "8080")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 3*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedChatIDs)
	assert.Equal(t, []int64{42}, cfg.AllowedUserIDs)
	assert.Equal(t, []string{"NVIDIA L40S", "NVIDIA H100 PCIe"}, cfg.PreferredGPUs)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
	assert.Equal(t, 8080, cfg.WebhookPort)
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	t.Run("api key", func(t *testing.T) {
		t.Setenv("RUNPOD_API_KEY", "")
		t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
		t.Setenv("TELEGRAM_CHAT_ID", "123456")

		_, err := Load(viper.New())
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("bot token", func(t *testing.T) {
		t.Setenv("RUNPOD_API_KEY", "rp-key")
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("TELEGRAM_CHAT_ID", "123456")

		_, err := Load(viper.New())
		assert.ErrorIs(t, err, ErrMissingBotToken)
	})

	t.Run("chat id", func(t *testing.T) {
		t.Setenv("RUNPOD_API_KEY", "rp-key")
		t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
		t.Setenv("TELEGRAM_CHAT_ID", "")

		_, err := Load(viper.New())
		assert.ErrorIs(t, err, ErrMissingChatID)
	})
}

func TestLoadRejectsMalformedIDs(t *testing.T) {
	setRequiredEnv(t)

	t.Run("chat id not numeric", func(t *testing.T) {
		t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
		_, err := Load(viper.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
	})

	t.Run("allow list entry not numeric", func(t *testing.T) {
		t.Setenv("ALLOWED_CHAT_IDS", "1,abc")
		_, err := Load(viper.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ALLOWED_CHAT_IDS")
	})
}

func TestLoadRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		value  string
		wantIn string
	}{
		{name: "interval not numeric", envKey: "CHECK_INTERVAL_MINUTES", value: "abc", wantIn: "CHECK_INTERVAL_MINUTES"},
		{name: "interval zero", envKey: "CHECK_INTERVAL_MINUTES", value: "0", wantIn: "CHECK_INTERVAL_MINUTES"},
		{name: "interval negative", envKey: "CHECK_INTERVAL_MINUTES", value: "-5", wantIn: "CHECK_INTERVAL_MINUTES"},
		{name: "ttl not numeric", envKey: "SESSION_TTL_MINUTES", value: "soon", wantIn: "SESSION_TTL_MINUTES"},
		{name: "ttl zero", envKey: "SESSION_TTL_MINUTES", value: "0", wantIn: "SESSION_TTL_MINUTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.envKey, tt.value)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestLoadNilViper(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "rp-key", cfg.RunPodAPIKey)
}
