package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	return cfg
}

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRequiresToken(t *testing.T) {
	assert.Error(t, Normalize(&Config{}))
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	assert.Error(t, Normalize(cfg), "missing url")

	cfg.Webhook.URL = "https://bot.example.com/telegram"
	assert.Error(t, Normalize(cfg), "missing listen")

	cfg.Webhook.Listen = "0.0.0.0"
	assert.Error(t, Normalize(cfg), "missing port")

	cfg.Webhook.Port = 8443
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeRejectsUnknownRateLimitExclusion(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"callback", "carrier-pigeon"}
	assert.Error(t, Normalize(cfg))
}
