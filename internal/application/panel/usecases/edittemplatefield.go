package usecases

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type EditTemplateFieldCommand struct {
	Name  string `validate:"required"`
	Field string `validate:"required,oneof=title description color image channel order_reply support_reply"`
	Value string `validate:"required"`
}

type EditTemplateFieldResult struct {
	Name string

	// LiveEdited is true when the published panel message was refreshed
	// in place as part of the edit.
	LiveEdited bool
}

type EditTemplateFieldUseCase struct {
	templates template.Repository
	platform  ports.PlatformSender
	validate  *validator.Validate
	logger    logger.Interface
}

func NewEditTemplateFieldUseCase(
	templates template.Repository,
	platform ports.PlatformSender,
	log logger.Interface,
) *EditTemplateFieldUseCase {
	return &EditTemplateFieldUseCase{
		templates: templates,
		platform:  platform,
		validate:  validator.New(),
		logger:    log,
	}
}

func (uc *EditTemplateFieldUseCase) Execute(ctx context.Context, cmd EditTemplateFieldCommand) (*EditTemplateFieldResult, error) {
	if err := uc.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	tmpl, err := uc.templates.GetByName(ctx, cmd.Name)
	if err != nil {
		return nil, err
	}

	if err := applyField(tmpl, cmd.Field, cmd.Value); err != nil {
		return nil, err
	}

	// Round-trip through normalization so derived flags stay consistent
	// with the edited content.
	tmpl, err = template.Normalize(tmpl.Document())
	if err != nil {
		return nil, err
	}

	if err := uc.templates.Save(ctx, tmpl); err != nil {
		uc.logger.Errorw("failed to store edited template", "name", tmpl.Name, "error", err)
		return nil, errors.NewInternalError("failed to store edited template")
	}

	result := &EditTemplateFieldResult{Name: tmpl.Name}

	// A published panel follows its template.
	if tmpl.LastMessageID != 0 && tmpl.ChannelID != 0 {
		content := ports.MessageContent{Panel: renderSpec(tmpl)}
		if err := uc.platform.EditMessage(ctx, tmpl.ChannelID, tmpl.LastMessageID, content); err != nil {
			uc.logger.Warnw("failed to refresh published panel after edit",
				"name", tmpl.Name, "channel_id", tmpl.ChannelID, "error", err)
		} else {
			result.LiveEdited = true
		}
	}

	uc.logger.Infow("template field updated", "name", tmpl.Name, "field", cmd.Field)
	return result, nil
}

func applyField(tmpl *template.Template, field, value string) error {
	switch field {
	case "title":
		tmpl.Block.Title = value
	case "description":
		tmpl.Block.Description = value
	case "color":
		hex, err := parseHexValue(value)
		if err != nil {
			return err
		}
		tmpl.Block.ColorHex = hex
	case "image":
		tmpl.Block.ImageURL = value
	case "channel":
		channelID, err := strconv.ParseInt(value, 10, 64)
		if err != nil || channelID <= 0 {
			return errors.NewValidationError("channel must be a positive numeric id")
		}
		tmpl.ChannelID = channelID
	case "order_reply":
		tmpl.OrderReply = value
	case "support_reply":
		tmpl.SupportReply = value
	default:
		return errors.NewValidationError("unknown field: " + field)
	}
	return nil
}

// parseHexValue rejects bad colors during editor-driven updates instead of
// silently defaulting the way bulk normalization does.
func parseHexValue(value string) (string, error) {
	if len(value) > 0 && value[0] == '#' {
		value = value[1:]
	}
	if len(value) != 6 {
		return "", errors.NewValidationError("color must be 6 hex digits")
	}
	if _, err := strconv.ParseUint(value, 16, 32); err != nil {
		return "", errors.NewValidationError("color must be 6 hex digits")
	}
	return value, nil
}
