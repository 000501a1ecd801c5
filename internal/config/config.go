// Package config manages application configuration from config.yaml, BOT_*
// environment variables, and default values, validated with validator/v10.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every configuration loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultDBPath = "./remindbot.db"

	// 18:50 in the reminder time zone, the original deployment's slot.
	DefaultReminderSchedule = "50 18 * * *"
	DefaultReminderTimezone = "Asia/Tokyo"
	DefaultReminderMessage  = "⏰ リマインド：時間です！"

	DefaultServerAddr = ":8080"

	DefaultStoreTimeout = 15 * time.Second
	DefaultSendTimeout  = 15 * time.Second
)

// DailyReminderTask is the registry key of the scheduled reminder task.
const DailyReminderTask = "daily_reminder"

// Config defines the application configuration. Values can be set via
// config.yaml or environment variables prefixed with BOT_
// (e.g. BOT_TELEGRAM_TOKEN).
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
	Timeouts  TimeoutConfig   `mapstructure:"timeouts"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TelegramConfig holds bot credentials and destinations.
type TelegramConfig struct {
	Token    string         `mapstructure:"token"    validate:"required"`
	AdminID  int64          `mapstructure:"admin_id" validate:"required,gt=0"`
	ChatID   int64          `mapstructure:"chat_id"  validate:"required"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig holds operator-facing reply texts.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	Help          string `mapstructure:"help"           validate:"required"`
	NotAuthorized string `mapstructure:"not_authorized" validate:"required"`
	Enabled       string `mapstructure:"enabled"        validate:"required"`
	Disabled      string `mapstructure:"disabled"       validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}

// ReminderConfig describes what to send and in which time zone calendar
// dates are computed.
type ReminderConfig struct {
	Message  string `mapstructure:"message"  validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// Location loads the configured reminder time zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// SchedulerConfig maps task registry keys to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// ServerConfig configures the HTTP liveness/metrics server.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// TimeoutConfig bounds the blocking store and notifier calls.
type TimeoutConfig struct {
	Store time.Duration `mapstructure:"store" validate:"required,min=1s,max=1m"`
	Send  time.Duration `mapstructure:"send"  validate:"required,min=1s,max=1m"`
}
