// Package telegram wraps the Bot API client: outbound replies, webhook
// management, and conversion of raw updates into the domain type.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kassabot/internal/core"
	applog "kassabot/internal/log"
)

// Messenger is the outbound "send a message to a chat" capability.
// Delivery is fire-and-forget: the transport client handles its own
// retries, the dispatcher does not retry replies.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Bot is the production Messenger on top of the Telegram Bot API.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *applog.Logger
}

var _ Messenger = (*Bot)(nil)

func New(token string, logger *applog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	logger = logger.WithComponent(applog.ComponentTelegram)
	logger.Info("authorized", "username", api.Self.UserName)
	return &Bot{api: api, logger: logger}, nil
}

// Send delivers one plain-text reply to a chat.
func (b *Bot) Send(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// RegisterWebhook points Telegram at url and verifies the registration.
func (b *Bot) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}
	if info.LastErrorDate != 0 {
		b.logger.Warn("webhook has a recorded delivery error",
			"last_error", info.LastErrorMessage,
			"last_error_at", time.Unix(int64(info.LastErrorDate), 0))
	}
	b.logger.Info("webhook registered", "url", url, "pending_updates", info.PendingUpdateCount)
	return nil
}

// WebhookInfo returns the current registration state.
func (b *Bot) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return b.api.GetWebhookInfo()
}

// DeleteWebhook removes the registration, optionally dropping queued
// updates on Telegram's side.
func (b *Bot) DeleteWebhook(dropPending bool) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// FromUpdate reduces a raw Telegram update to the domain type. Updates
// without a text message (edits, stickers, channel posts) are not
// processable and return false.
func FromUpdate(u tgbotapi.Update) (core.Update, bool) {
	if u.Message == nil || u.Message.From == nil || u.Message.Chat == nil || u.Message.Text == "" {
		return core.Update{}, false
	}
	received := time.Now()
	if u.Message.Date != 0 {
		received = time.Unix(int64(u.Message.Date), 0)
	}
	return core.Update{
		ID:         u.UpdateID,
		SenderID:   u.Message.From.ID,
		ChatID:     u.Message.Chat.ID,
		Text:       u.Message.Text,
		ReceivedAt: received,
	}, true
}
