package telegram

import (
	"strconv"
	"strings"

	"github.com/bnema/podwatch/internal/domain"
)

// ActionKind is the closed set of callback actions the bot understands.
type ActionKind string

const (
	ActionCancel         ActionKind = "cancel"
	ActionSelectTemplate ActionKind = "select-template"
	ActionSelectVolume   ActionKind = "select-volume"
	ActionSelectGPU      ActionKind = "select-gpu"
	ActionConfirmCreate  ActionKind = "confirm-create"
	ActionTerminate      ActionKind = "terminate"
	ActionStop           ActionKind = "stop"
)

// Action is a decoded callback payload. It is produced once at the update
// boundary and matched exhaustively by kind; handlers never inspect the raw
// wire string.
type Action struct {
	Kind       ActionKind
	TemplateID domain.TemplateID
	VolumeID   domain.VolumeID // empty with Kind ActionSelectVolume means "no volume"
	GPUIndex   int
	PodID      domain.PodID
}

// Wire prefixes for callback data. Telegram limits callback payloads to 64
// bytes, so tokens stay short.
const (
	dataCancel      = "cancel"
	dataConfirm     = "crconfirm"
	dataVolumeNone  = "crvol_none"
	prefixTemplate  = "crtpl_"
	prefixVolume    = "crvol_"
	prefixGPU       = "crgpu_"
	prefixTerminate = "terminate_"
	prefixStop      = "stop_"
)

func encodeTemplate(id domain.TemplateID) string { return prefixTemplate + string(id) }
func encodeVolume(id domain.VolumeID) string     { return prefixVolume + string(id) }
func encodeGPU(index int) string                 { return prefixGPU + strconv.Itoa(index) }
func encodeTerminate(id domain.PodID) string     { return prefixTerminate + string(id) }
func encodeStop(id domain.PodID) string          { return prefixStop + string(id) }

// decodeAction parses callback data into an Action. The second return is
// false for payloads outside the known set.
func decodeAction(data string) (Action, bool) {
	switch {
	case data == dataCancel:
		return Action{Kind: ActionCancel}, true
	case data == dataConfirm:
		return Action{Kind: ActionConfirmCreate}, true
	case data == dataVolumeNone:
		return Action{Kind: ActionSelectVolume}, true
	case strings.HasPrefix(data, prefixTemplate):
		return Action{
			Kind:       ActionSelectTemplate,
			TemplateID: domain.TemplateID(data[len(prefixTemplate):]),
		}, true
	case strings.HasPrefix(data, prefixVolume):
		return Action{
			Kind:     ActionSelectVolume,
			VolumeID: domain.VolumeID(data[len(prefixVolume):]),
		}, true
	case strings.HasPrefix(data, prefixGPU):
		index, err := strconv.Atoi(data[len(prefixGPU):])
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: ActionSelectGPU, GPUIndex: index}, true
	case strings.HasPrefix(data, prefixTerminate):
		return Action{
			Kind:  ActionTerminate,
			PodID: domain.PodID(data[len(prefixTerminate):]),
		}, true
	case strings.HasPrefix(data, prefixStop):
		return Action{
			Kind:  ActionStop,
			PodID: domain.PodID(data[len(prefixStop):]),
		}, true
	default:
		return Action{}, false
	}
}
