package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewToggleHandler returns a handler for /remind_on or /remind_off,
// depending on the enabled argument. The handler only flips the enabled
// flag; the last-sent marker stays untouched so toggling cannot re-arm a
// reminder already sent today.
func NewToggleHandler(deps HandlerDeps, enabled bool) bot.HandlerFunc {
	return toggleHandler{deps: deps, enabled: enabled}.Handle
}

type toggleHandler struct {
	deps    HandlerDeps
	enabled bool
}

func (h toggleHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "toggle", "enabled", h.enabled)

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Toggle handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling reminder toggle", "chat_id", chatID, "user_id", update.Message.From.ID)

	reply := h.deps.Config.Telegram.Messages.Enabled
	if !h.enabled {
		reply = h.deps.Config.Telegram.Messages.Disabled
	}

	if err := h.deps.Store.SetEnabled(ctx, h.enabled); err != nil {
		log.ErrorContext(ctx, "Failed to update reminder flag", "error", err)
		reply = h.deps.Config.Telegram.Messages.GeneralError
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send toggle reply", "error", err, "chat_id", chatID)
	}
}
