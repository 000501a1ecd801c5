// Package tasks implements the bot's scheduled tasks and their registry.
package tasks

import (
	"log/slog"

	"github.com/mkoba/remindbot/internal/config"
	"github.com/mkoba/remindbot/internal/reminder"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Dispatcher *reminder.Dispatcher
}
