// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultGPUTypes is offered at the wizard's GPU step when PREFERRED_GPUS is
// not set.
var DefaultGPUTypes = []string{
	"NVIDIA RTX A4500",
	"NVIDIA A100 80GB PCIe",
	"NVIDIA A100-SXM4-80GB",
}

const (
	keyRunPodAPIKey   = "runpod_api_key"
	keyTelegramToken  = "telegram_bot_token"
	keyAlertChatID    = "telegram_chat_id"
	keyAllowedChats   = "allowed_chat_ids"
	keyAllowedUsers   = "allowed_user_ids"
	keyCheckInterval  = "check_interval_minutes"
	keySessionTTL     = "session_ttl_minutes"
	keyPreferredGPUs  = "preferred_gpus"
	keyWebhookURL     = "webhook_url"
	keyWebhookPort    = "webhook_port"
	defaultCheckMins  = 60
	defaultTTLMins    = 10
	defaultWebhookPrt = 8443
)

var (
	ErrMissingAPIKey   = errors.New("RUNPOD_API_KEY is not set")
	ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN is not set")
	ErrMissingChatID   = errors.New("TELEGRAM_CHAT_ID is not set")
)

// Config is immutable after Load.
type Config struct {
	RunPodAPIKey   string
	TelegramToken  string
	AlertChatID    int64
	AllowedChatIDs []int64
	AllowedUserIDs []int64
	CheckInterval  time.Duration
	SessionTTL     time.Duration
	PreferredGPUs  []string
	WebhookURL     string
	WebhookPort    int
}

// Load reads configuration from the environment through the given viper
// instance. A nil instance gets a fresh one.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault(keyCheckInterval, defaultCheckMins)
	v.SetDefault(keySessionTTL, defaultTTLMins)
	v.SetDefault(keyWebhookPort, defaultWebhookPrt)
	v.AutomaticEnv()

	cfg := Config{
		RunPodAPIKey:  v.GetString(keyRunPodAPIKey),
		TelegramToken: v.GetString(keyTelegramToken),
		WebhookURL:    v.GetString(keyWebhookURL),
		WebhookPort:   v.GetInt(keyWebhookPort),
	}

	if cfg.RunPodAPIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	if cfg.TelegramToken == "" {
		return Config{}, ErrMissingBotToken
	}

	var err error
	if cfg.CheckInterval, err = minutes(v.GetString(keyCheckInterval)); err != nil {
		return Config{}, fmt.Errorf("parse CHECK_INTERVAL_MINUTES: %w", err)
	}
	if cfg.SessionTTL, err = minutes(v.GetString(keySessionTTL)); err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL_MINUTES: %w", err)
	}

	rawChatID := v.GetString(keyAlertChatID)
	if rawChatID == "" {
		return Config{}, ErrMissingChatID
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
	}
	cfg.AlertChatID = chatID

	if cfg.AllowedChatIDs, err = splitIDs(v.GetString(keyAllowedChats)); err != nil {
		return Config{}, fmt.Errorf("parse ALLOWED_CHAT_IDS: %w", err)
	}
	if cfg.AllowedUserIDs, err = splitIDs(v.GetString(keyAllowedUsers)); err != nil {
		return Config{}, fmt.Errorf("parse ALLOWED_USER_IDS: %w", err)
	}

	cfg.PreferredGPUs = splitList(v.GetString(keyPreferredGPUs))
	if len(cfg.PreferredGPUs) == 0 {
		cfg.PreferredGPUs = DefaultGPUTypes
	}

	return cfg, nil
}

// minutes parses a minute count strictly: any non-numeric or non-positive
// value is a startup error, never a zero duration that would arm a ticker
// with no period.
func minutes(raw string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid minute count %q: %w", raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("minute count must be positive, got %d", n)
	}
	return time.Duration(n) * time.Minute, nil
}

func splitIDs(csv string) ([]int64, error) {
	parts := splitList(csv)
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
