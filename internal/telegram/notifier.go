package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// Notifier delivers reminder messages to a fixed Telegram chat. It
// implements the dispatcher's Notifier interface; any API failure is
// returned as an error so the caller never commits an unconfirmed send.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
	logger *slog.Logger
}

// NewNotifier creates a notifier bound to the configured destination chat.
func NewNotifier(b *bot.Bot, chatID int64, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		bot:    b,
		chatID: chatID,
		logger: logger.With("component", "notifier"),
	}
}

// Send posts text to the destination chat. The context bounds the API call;
// a cancelled or failed request leaves the reminder state untouched.
func (n *Notifier) Send(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.WarnContext(ctx, "Failed to send reminder message", "chat_id", n.chatID, "error", err)
		return fmt.Errorf("send message to chat %d: %w", n.chatID, err)
	}

	n.logger.InfoContext(ctx, "Reminder message delivered", "chat_id", n.chatID)
	return nil
}
