package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoba/remindbot/internal/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_TELEGRAM_ADMIN_ID", "42")
	t.Setenv("BOT_TELEGRAM_CHAT_ID", "-100123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, config.DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, config.DefaultReminderTimezone, cfg.Reminder.Timezone)
	assert.Equal(t, config.DefaultReminderMessage, cfg.Reminder.Message)
	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Store)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Send)

	task, ok := cfg.Scheduler.Tasks[config.DailyReminderTask]
	require.True(t, ok)
	assert.True(t, task.Enabled)
	assert.Equal(t, config.DefaultReminderSchedule, task.Schedule)

	assert.Equal(t, "123456:test-token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
  json: false
telegram:
  token: "file-token"
  admin_id: 7
  chat_id: 99
reminder:
  message: "time to trade"
  timezone: "UTC"
scheduler:
  tasks:
    daily_reminder:
      enabled: true
      schedule: "0 9 * * *"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Logger.JSON)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "time to trade", cfg.Reminder.Message)
	assert.Equal(t, "0 9 * * *", cfg.Scheduler.Tasks[config.DailyReminderTask].Schedule)

	loc, err := cfg.Reminder.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_LOG_LEVEL", "warn")

	path := writeConfigFile(t, `
log:
  level: debug
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadConfigMissingToken(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_ADMIN_ID", "42")
	t.Setenv("BOT_TELEGRAM_CHAT_ID", "-100123")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestLoadConfigInvalidTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_REMINDER_TIMEZONE", "Not/AZone")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestLoadConfigEnabledTaskNeedsSchedule(t *testing.T) {
	setRequiredEnv(t)

	path := writeConfigFile(t, `
scheduler:
  tasks:
    daily_reminder:
      enabled: true
      schedule: ""
`)

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
}
