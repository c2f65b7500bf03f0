// Package telegram is the bot transport: it consumes Telegram updates, routes
// commands and callback actions into the application layer, and delivers
// notifications back to chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/application"
	"github.com/bnema/podwatch/internal/ports"
)

const (
	updatePollTimeout      = 30 // seconds, long-polling
	webhookShutdownTimeout = 5 * time.Second
)

// Options carries transport-level configuration. A non-empty WebhookURL
// switches the bot from long polling to webhook mode.
type Options struct {
	CheckInterval time.Duration
	WebhookURL    string
	WebhookPort   int
}

// Bot wires the Telegram API to the application services. It also implements
// ports.Notifier for the monitor's alerts.
//
// Updates are handled strictly sequentially: Run consumes the update channel
// in a single goroutine, so no two callbacks for the same session ever
// interleave.
type Bot struct {
	api    *tgbotapi.BotAPI
	gate   *application.AccessGate
	wizard *application.Wizard
	pods   *application.PodService
	logger *zap.Logger
	opts   Options
}

var _ ports.Notifier = (*Bot)(nil)

func New(api *tgbotapi.BotAPI, gate *application.AccessGate, wizard *application.Wizard, pods *application.PodService, logger *zap.Logger, opts Options) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bot{
		api:    api,
		gate:   gate,
		wizard: wizard,
		pods:   pods,
		logger: logger,
		opts:   opts,
	}
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.updates(ctx)
	if err != nil {
		return err
	}

	b.logger.Info("telegram bot started",
		zap.String("username", b.api.Self.UserName),
		zap.Bool("webhook", b.opts.WebhookURL != ""))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) updates(ctx context.Context) (tgbotapi.UpdatesChannel, error) {
	if b.opts.WebhookURL == "" {
		cfg := tgbotapi.NewUpdate(0)
		cfg.Timeout = updatePollTimeout
		return b.api.GetUpdatesChan(cfg), nil
	}

	path := "/" + b.api.Token
	wh, err := tgbotapi.NewWebhook(b.opts.WebhookURL + path)
	if err != nil {
		return nil, fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return nil, fmt.Errorf("register webhook: %w", err)
	}

	updates := b.api.ListenForWebhook(path)
	go b.serveWebhook(ctx, fmt.Sprintf(":%d", b.opts.WebhookPort))
	return updates, nil
}

// serveWebhook runs the webhook HTTP listener and shuts it down when ctx is
// cancelled, so the listener never outlives Run.
func (b *Bot) serveWebhook(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), webhookShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			b.logger.Warn("webhook listener shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		b.logger.Error("webhook listener stopped", zap.Error(err))
	}
}

// Send delivers a text message to a chat. Single attempt, no retry.
func (b *Bot) Send(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("edit message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) editKeyboard(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("edit message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Cancel", dataCancel),
	)
}
