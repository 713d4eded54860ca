package usecases

import (
	"context"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type SendAdhocPanelCommand struct {
	ChannelID   int64
	Title       string
	Description string
	ColorHex    string
	ImageURL    string

	// WithTicketButtons attaches the standard order and support open buttons.
	WithTicketButtons bool
}

type SendAdhocPanelResult struct {
	ChannelID int64
	MessageID int64
}

// SendAdhocPanelUseCase posts a one-off panel without touching the template
// store. Ad-hoc ticket panels are not tracked, so tickets opened from them
// use the generic greeting.
type SendAdhocPanelUseCase struct {
	platform ports.PlatformSender
	logger   logger.Interface
}

func NewSendAdhocPanelUseCase(platform ports.PlatformSender, log logger.Interface) *SendAdhocPanelUseCase {
	return &SendAdhocPanelUseCase{platform: platform, logger: log}
}

func (uc *SendAdhocPanelUseCase) Execute(ctx context.Context, cmd SendAdhocPanelCommand) (*SendAdhocPanelResult, error) {
	if cmd.ChannelID == 0 {
		return nil, errors.NewValidationError("channel id is required")
	}
	if cmd.Title == "" && cmd.Description == "" {
		return nil, errors.NewValidationError("title or description is required")
	}

	doc := map[string]any{
		"name":        "adhoc",
		"channelId":   cmd.ChannelID,
		"title":       cmd.Title,
		"description": cmd.Description,
		"colorHex":    cmd.ColorHex,
		"imageUrl":    cmd.ImageURL,
	}
	if cmd.WithTicketButtons {
		doc["isTicketPanel"] = true
		doc["panelButtons"] = []any{
			map[string]any{"label": "Order", "emoji": "🧾", "style": "success", "action": "openOrderTicket"},
			map[string]any{"label": "Support", "emoji": "🛟", "style": "primary", "action": "openSupportTicket"},
		}
	}

	tmpl, err := template.Normalize(doc)
	if err != nil {
		return nil, err
	}

	messageID, err := uc.platform.SendMessage(ctx, cmd.ChannelID, ports.MessageContent{Panel: renderSpec(tmpl)})
	if err != nil {
		uc.logger.Errorw("failed to send ad-hoc panel", "channel_id", cmd.ChannelID, "error", err)
		return nil, errors.NewExternalError("failed to send ad-hoc panel", err)
	}

	uc.logger.Infow("ad-hoc panel sent",
		"channel_id", cmd.ChannelID, "message_id", messageID, "ticket_panel", cmd.WithTicketButtons)
	return &SendAdhocPanelResult{ChannelID: cmd.ChannelID, MessageID: messageID}, nil
}
