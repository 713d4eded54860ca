package usecases

import (
	"context"
	"fmt"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type PublishPanelCommand struct {
	Name string

	// ChannelID overrides the template's stored channel target when set.
	ChannelID int64

	// EditInPlace re-renders into the last published message instead of
	// sending a new one. Publishing fresh always records the new message id.
	EditInPlace bool
}

type PublishPanelResult struct {
	Name      string
	ChannelID int64
	MessageID int64
	Edited    bool
}

type PublishPanelUseCase struct {
	templates template.Repository
	platform  ports.PlatformSender
	logger    logger.Interface
}

func NewPublishPanelUseCase(
	templates template.Repository,
	platform ports.PlatformSender,
	log logger.Interface,
) *PublishPanelUseCase {
	return &PublishPanelUseCase{templates: templates, platform: platform, logger: log}
}

func (uc *PublishPanelUseCase) Execute(ctx context.Context, cmd PublishPanelCommand) (*PublishPanelResult, error) {
	if cmd.Name == "" {
		return nil, errors.NewValidationError("template name is required")
	}

	tmpl, err := uc.templates.GetByName(ctx, cmd.Name)
	if err != nil {
		return nil, err
	}

	channelID := tmpl.ChannelID
	if cmd.ChannelID != 0 {
		channelID = cmd.ChannelID
	}
	if channelID == 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("template %q has no target channel", tmpl.Name))
	}

	content := ports.MessageContent{Panel: renderSpec(tmpl)}

	if cmd.EditInPlace && tmpl.LastMessageID != 0 {
		if err := uc.platform.EditMessage(ctx, channelID, tmpl.LastMessageID, content); err != nil {
			uc.logger.Errorw("failed to edit published panel",
				"name", tmpl.Name, "channel_id", channelID, "message_id", tmpl.LastMessageID, "error", err)
			return nil, errors.NewExternalError("failed to edit published panel", err)
		}
		uc.logger.Infow("panel updated in place", "name", tmpl.Name, "channel_id", channelID)
		return &PublishPanelResult{
			Name:      tmpl.Name,
			ChannelID: channelID,
			MessageID: tmpl.LastMessageID,
			Edited:    true,
		}, nil
	}

	messageID, err := uc.platform.SendMessage(ctx, channelID, content)
	if err != nil {
		uc.logger.Errorw("failed to publish panel", "name", tmpl.Name, "channel_id", channelID, "error", err)
		return nil, errors.NewExternalError("failed to publish panel", err)
	}

	tmpl.LastMessageID = messageID
	tmpl.ChannelID = channelID
	if err := uc.templates.Save(ctx, tmpl); err != nil {
		uc.logger.Warnw("failed to record published message id", "name", tmpl.Name, "error", err)
	}

	uc.logger.Infow("panel published", "name", tmpl.Name, "channel_id", channelID, "message_id", messageID)
	return &PublishPanelResult{
		Name:      tmpl.Name,
		ChannelID: channelID,
		MessageID: messageID,
	}, nil
}

func renderSpec(tmpl *template.Template) *template.RenderSpec {
	spec := template.Render(tmpl)
	return &spec
}
