package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/adapters/render/podtext"
	"github.com/bnema/podwatch/internal/adapters/runpod"
	"github.com/bnema/podwatch/internal/application"
	"github.com/bnema/podwatch/internal/domain"
)

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn("answer callback failed", zap.Error(err))
	}
	if q.Message == nil {
		return
	}

	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID

	if !b.gate.Allowed(chatID, userID) {
		b.logger.Warn("unauthorized callback",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID))
		b.edit(chatID, messageID, msgNotAuthorized)
		return
	}

	action, ok := decodeAction(q.Data)
	if !ok {
		b.logger.Warn("unknown callback payload", zap.String("data", q.Data))
		return
	}

	key := domain.SessionKey{ChatID: chatID, UserID: userID}

	switch action.Kind {
	case ActionCancel:
		b.wizard.Cancel(key)
		b.edit(chatID, messageID, "Operation cancelled.")

	case ActionSelectTemplate:
		view, err := b.wizard.SelectTemplate(ctx, key, action.TemplateID)
		if err != nil {
			b.edit(chatID, messageID, wizardErrorText(err))
			return
		}
		b.showStep(chatID, messageID, view)

	case ActionSelectVolume:
		view, err := b.wizard.SelectVolume(ctx, key, action.VolumeID)
		if err != nil {
			b.edit(chatID, messageID, wizardErrorText(err))
			return
		}
		b.showStep(chatID, messageID, view)

	case ActionSelectGPU:
		view, err := b.wizard.SelectGPU(ctx, key, action.GPUIndex)
		if err != nil {
			b.edit(chatID, messageID, wizardErrorText(err))
			return
		}
		b.showStep(chatID, messageID, view)

	case ActionConfirmCreate:
		b.edit(chatID, messageID, "Creating pod...")
		result, err := b.wizard.Confirm(ctx, key)
		if err != nil {
			b.logger.Error("pod creation failed", zap.Error(err))
			b.edit(chatID, messageID, wizardErrorText(err))
			return
		}
		b.edit(chatID, messageID, podtext.CreateResult(result.Pod.ID, result.Name, result.GPUType))

	case ActionTerminate:
		b.handleTerminate(ctx, chatID, messageID, action.PodID)

	case ActionStop:
		b.handleStop(ctx, chatID, messageID, action.PodID)
	}
}

func (b *Bot) handleTerminate(ctx context.Context, chatID int64, messageID int, podID domain.PodID) {
	b.edit(chatID, messageID, fmt.Sprintf("Terminating pod `%s`...", podID))
	if err := b.pods.Terminate(ctx, podID); err != nil {
		if errors.Is(err, domain.ErrInvalidPodID) {
			b.logger.Warn("malformed pod id in callback", zap.String("pod_id", string(podID)))
			b.edit(chatID, messageID, "Invalid request.")
			return
		}
		b.logger.Error("pod terminate failed", zap.Error(err))
		b.edit(chatID, messageID, "Failed to terminate the pod. Try again later.")
		return
	}
	b.edit(chatID, messageID, fmt.Sprintf("Pod `%s` terminated.", podID))
}

func (b *Bot) handleStop(ctx context.Context, chatID int64, messageID int, podID domain.PodID) {
	b.edit(chatID, messageID, fmt.Sprintf("Stopping pod `%s`...", podID))
	if err := b.pods.Stop(ctx, podID); err != nil {
		if errors.Is(err, domain.ErrInvalidPodID) {
			b.logger.Warn("malformed pod id in callback", zap.String("pod_id", string(podID)))
			b.edit(chatID, messageID, "Invalid request.")
			return
		}
		b.logger.Error("pod stop failed", zap.Error(err))
		b.edit(chatID, messageID, "Failed to stop the pod. Try again later.")
		return
	}
	b.edit(chatID, messageID, fmt.Sprintf("Pod `%s` stopped.", podID))
}

// showStep renders the step a wizard transition landed on.
func (b *Bot) showStep(chatID int64, messageID int, view application.StepView) {
	switch view.Step {
	case domain.StepAwaitVolume:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Volumes)+2)
		for _, vol := range view.Volumes {
			label := fmt.Sprintf("%s (%dGB, %s)", vol.Label(), vol.SizeGB, orUnknown(vol.DataCenterID))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, encodeVolume(vol.ID)),
			))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Create without volume", dataVolumeNone),
		))
		rows = append(rows, cancelRow())

		text := fmt.Sprintf("Template: %s\n\nChoose a network volume (optional):", view.Session.Template.Label())
		b.editKeyboard(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))

	case domain.StepAwaitGPU:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.GPUTypes)+1)
		for i, gpu := range view.GPUTypes {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(gpu, encodeGPU(i)),
			))
		}
		rows = append(rows, cancelRow())

		volume := view.Session.VolumeName
		if volume == "" {
			volume = "none"
		}
		text := fmt.Sprintf("Template: %s\nVolume: %s\n\nChoose a GPU:", view.Session.Template.Label(), volume)
		b.editKeyboard(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))

	case domain.StepAwaitConfirm:
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Create", dataConfirm),
			),
			cancelRow(),
		)
		b.editKeyboard(chatID, messageID, podtext.CreateSummary(view.Session), markup)
	}
}

func wizardErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "Session expired. Start again with /create."
	case errors.Is(err, domain.ErrInvalidTransition):
		return "That choice no longer matches the current step."
	case errors.Is(err, domain.ErrUnknownTemplate):
		return "Selected template not found."
	case errors.Is(err, domain.ErrUnknownVolume):
		return "Selected volume not found."
	case errors.Is(err, domain.ErrInvalidGPU):
		return "Invalid GPU selection."
	}

	var apiErr *runpod.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "Pod service error: " + apiErr.Message
	}
	return msgUpstreamError
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
