package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/adapters/render/podtext"
	"github.com/bnema/podwatch/internal/domain"
)

const (
	msgNotAuthorized = "You are not authorized to use this bot."
	msgUpstreamError = "Something went wrong. Try again later."

	msgWelcome = "Welcome to the RunPod monitor bot!\n\n" +
		"Available commands:\n" +
		"/status - show running pods\n" +
		"/pods - list all pods\n" +
		"/create - create a new pod\n" +
		"/terminate - terminate menu (permanent delete)\n" +
		"/stop - stop menu (storage kept)\n" +
		"/help - help"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if !b.gate.Allowed(chatID, userID) {
		b.logger.Warn("unauthorized command",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
			zap.String("command", msg.Command()))
		b.reply(chatID, msgNotAuthorized)
		return
	}

	switch msg.Command() {
	case "start":
		b.reply(chatID, msgWelcome)
	case "help":
		b.handleHelp(chatID)
	case "status":
		b.handleStatus(ctx, chatID)
	case "pods":
		b.handlePods(ctx, chatID)
	case "create":
		b.handleCreate(ctx, chatID, userID)
	case "terminate":
		b.handleTerminateMenu(ctx, chatID)
	case "stop":
		b.handleStopMenu(ctx, chatID)
	}
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, fmt.Sprintf(
		"RunPod monitor bot help\n\n"+
			"/status - show running pod details\n"+
			"/pods - list all pods\n"+
			"/create - create a new pod (template/volume/GPU)\n"+
			"/terminate - permanently delete a pod (stops billing)\n"+
			"/stop - stop a pod (storage kept)\n\n"+
			"Automatic check interval: %s",
		b.opts.CheckInterval,
	))
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	running, err := b.pods.RunningPods(ctx)
	if err != nil {
		b.logger.Error("status query failed", zap.Error(err))
		b.reply(chatID, msgUpstreamError)
		return
	}
	b.reply(chatID, podtext.StatusReport(running))
}

func (b *Bot) handlePods(ctx context.Context, chatID int64) {
	pods, err := b.pods.ListPods(ctx)
	if err != nil {
		b.logger.Error("pod list query failed", zap.Error(err))
		b.reply(chatID, msgUpstreamError)
		return
	}
	if len(pods) == 0 {
		b.reply(chatID, "No pods registered.")
		return
	}
	b.reply(chatID, podtext.PodList("All pods", pods))
}

func (b *Bot) handleCreate(ctx context.Context, chatID, userID int64) {
	key := domain.SessionKey{ChatID: chatID, UserID: userID}

	view, err := b.wizard.Begin(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNoTemplates) {
			b.reply(chatID, "No templates registered.")
			return
		}
		b.logger.Error("create menu failed", zap.Error(err))
		b.reply(chatID, "Failed to fetch templates. Try again later.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Templates)+1)
	for _, tpl := range view.Templates {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tpl.Label(), encodeTemplate(tpl.ID)),
		))
	}
	rows = append(rows, cancelRow())

	b.replyKeyboard(chatID, "Creating a pod - choose a template:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleTerminateMenu(ctx context.Context, chatID int64) {
	pods, err := b.pods.ListPods(ctx)
	if err != nil {
		b.logger.Error("terminate menu failed", zap.Error(err))
		b.reply(chatID, msgUpstreamError)
		return
	}
	if len(pods) == 0 {
		b.reply(chatID, "No pods registered.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(pods)+1)
	for _, pod := range pods {
		label := fmt.Sprintf("[%s] %s", pod.Status, podLabel(pod))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, encodeTerminate(pod.ID)),
		))
	}
	rows = append(rows, cancelRow())

	b.replyKeyboard(chatID, "Choose a pod to terminate (permanently deleted):", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleStopMenu(ctx context.Context, chatID int64) {
	running, err := b.pods.RunningPods(ctx)
	if err != nil {
		b.logger.Error("stop menu failed", zap.Error(err))
		b.reply(chatID, msgUpstreamError)
		return
	}
	if len(running) == 0 {
		b.reply(chatID, "No pods are currently running.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(running)+1)
	for _, pod := range running {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Stop: "+podLabel(pod), encodeStop(pod.ID)),
		))
	}
	rows = append(rows, cancelRow())

	b.replyKeyboard(chatID, "Choose a pod to stop (storage kept):", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func podLabel(pod domain.Pod) string {
	if pod.Name != "" {
		return pod.Name
	}
	id := string(pod.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}
