package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envKeyReplacer maps config keys to environment variable names, e.g.
// telegram.admin_id to BOT_TELEGRAM_ADMIN_ID.
var envKeyReplacer = strings.NewReplacer(".", "_")

// LoadConfig loads and validates configuration from:
//  1. Default values
//  2. The YAML file at path (optional)
//  3. BOT_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// The config file is optional; defaults plus environment suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks the configuration beyond struct tags: the reminder time
// zone must load, and enabled scheduler tasks need a schedule.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.Reminder.Location(); err != nil {
		return fmt.Errorf("invalid reminder timezone %q: %w", c.Reminder.Timezone, err)
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return fmt.Errorf("scheduler task %q is enabled but has no schedule", name)
		}
	}

	return nil
}

// setDefaults registers every configuration key with its default value.
// Keys without a meaningful default get an empty value so environment
// variable binding still applies; validation rejects empties afterwards.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", 0)
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.messages.welcome", "👋 Daily reminder bot. Use /remind_status to see the current state.")
	v.SetDefault("telegram.messages.help",
		"Commands:\n/remind_on — enable the daily reminder\n/remind_off — disable the daily reminder\n/remind_status — show the current state")
	v.SetDefault("telegram.messages.not_authorized", "🚫 Access denied. Please contact the administrator.")
	v.SetDefault("telegram.messages.enabled", "✅ Daily reminder is ON.")
	v.SetDefault("telegram.messages.disabled", "⏸️ Daily reminder is OFF.")
	v.SetDefault("telegram.messages.general_error", "❌ An error occurred. Please try again later.")

	v.SetDefault("reminder.message", DefaultReminderMessage)
	v.SetDefault("reminder.timezone", DefaultReminderTimezone)

	v.SetDefault("scheduler.tasks."+DailyReminderTask+".enabled", true)
	v.SetDefault("scheduler.tasks."+DailyReminderTask+".schedule", DefaultReminderSchedule)

	v.SetDefault("server.addr", DefaultServerAddr)

	v.SetDefault("timeouts.store", DefaultStoreTimeout)
	v.SetDefault("timeouts.send", DefaultSendTimeout)
}
