// Package handlers contains Telegram bot command handlers, their
// registration logic, and middleware.
package handlers

import (
	"log/slog"

	"github.com/mkoba/remindbot/internal/config"
	"github.com/mkoba/remindbot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
