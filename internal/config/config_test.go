package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("OWNER_CHAT_ID", "12345")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.EqualValues(t, 12345, cfg.OwnerChatID)
	assert.Equal(t, "data/work_data.db", cfg.DatabaseURL)
	assert.InDelta(t, 0.67, cfg.FixedRate, 1e-9)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.BotDebug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("OWNER_CHAT_ID", "-100200")
	t.Setenv("DATABASE_URL", "/tmp/x.db")
	t.Setenv("FIXED_RATE", "0.70")
	t.Setenv("HOLIDAYS_FILE", "vic.json")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("BOT_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.EqualValues(t, -100200, cfg.OwnerChatID)
	assert.Equal(t, "/tmp/x.db", cfg.DatabaseURL)
	assert.InDelta(t, 0.70, cfg.FixedRate, 1e-9)
	assert.Equal(t, "vic.json", cfg.HolidaysFile)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.BotDebug)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OWNER_CHAT_ID", "1")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("OWNER_CHAT_ID", "abc")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("OWNER_CHAT_ID", "1")
	t.Setenv("FIXED_RATE", "-1")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("FIXED_RATE", "0.67")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.Error(t, err)
}
