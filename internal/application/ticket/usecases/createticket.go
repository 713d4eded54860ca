package usecases

import (
	"context"
	"fmt"
	"strings"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

const (
	genericOrderPrompt   = "Please describe your job. A team member will be with you shortly."
	genericSupportPrompt = "Please describe your issue. A team member will be with you shortly."
)

type CreateTicketCommand struct {
	Kind       ticket.Kind
	OpenerID   int64
	OpenerName string

	// TemplateName selects the panel whose auto reply greets the opener.
	// A missing or unknown template falls back to a generic prompt.
	TemplateName string
}

type CreateTicketResult struct {
	ChannelID   int64
	ChannelName string
	Notified    []int64
}

type CreateTicketUseCase struct {
	bindings   ticket.BindingRepository
	templates  template.Repository
	registry   *registry.Registry
	platform   ports.PlatformSender
	notifier   ports.NotificationSender
	adminChats []int64
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	bindings ticket.BindingRepository,
	templates template.Repository,
	reg *registry.Registry,
	platform ports.PlatformSender,
	notifier ports.NotificationSender,
	adminChats []int64,
	log logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		bindings:   bindings,
		templates:  templates,
		registry:   reg,
		platform:   platform,
		notifier:   notifier,
		adminChats: adminChats,
		logger:     log,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	name := channelName(cmd.Kind, cmd.OpenerName, cmd.OpenerID)
	channelID, err := uc.platform.CreateChannel(ctx, name, ports.ChannelPermissions{OpenerID: cmd.OpenerID})
	if err != nil {
		uc.logger.Errorw("failed to create ticket channel", "name", name, "error", err)
		return nil, errors.NewExternalError("failed to create ticket channel", err)
	}

	binding, err := ticket.NewBinding(channelID, name, cmd.OpenerID, cmd.Kind)
	if err != nil {
		return nil, err
	}
	if err := uc.bindings.Save(ctx, binding); err != nil {
		uc.logger.Errorw("failed to store ticket binding", "channel_id", channelID, "error", err)
		if derr := uc.platform.DeleteChannel(ctx, channelID); derr != nil {
			uc.logger.Warnw("failed to delete orphaned ticket channel", "channel_id", channelID, "error", derr)
		}
		return nil, errors.NewInternalError("failed to store ticket binding")
	}

	greeting := ports.MessageContent{
		Text: uc.greetingText(ctx, cmd),
		Panel: &template.RenderSpec{
			Buttons:     []template.RenderedButton{template.CloseButtonSpec()},
			Interactive: true,
		},
	}
	if _, err := uc.platform.SendMessage(ctx, channelID, greeting); err != nil {
		uc.logger.Warnw("failed to send ticket greeting", "channel_id", channelID, "error", err)
	}

	targets := registry.ResolveTargets(cmd.Kind, cmd.OpenerID, uc.registry, uc.adminChats)
	if targets.Len() == 0 {
		uc.logger.Infow("no notification recipients for ticket", "channel_id", channelID, "kind", cmd.Kind)
	}

	opened := fmt.Sprintf("🎫 New %s ticket: #%s (opened by %s)", cmd.Kind, name, openerLabel(cmd))
	var notified []int64
	for _, chat := range targets.Sorted() {
		if _, err := uc.notifier.SendMessage(ctx, chat, opened); err != nil {
			uc.logger.Errorw("failed to notify recipient of new ticket",
				"channel_id", channelID, "chat_id", chat, "error", err)
			continue
		}
		notified = append(notified, chat)
	}

	uc.logger.Infow("ticket created",
		"channel_id", channelID, "kind", cmd.Kind, "opener_id", cmd.OpenerID)

	return &CreateTicketResult{
		ChannelID:   channelID,
		ChannelName: name,
		Notified:    notified,
	}, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if !cmd.Kind.IsValid() {
		return errors.NewValidationError("invalid ticket kind: " + string(cmd.Kind))
	}
	if cmd.OpenerID == 0 {
		return errors.NewValidationError("opener id is required")
	}
	return nil
}

func (uc *CreateTicketUseCase) greetingText(ctx context.Context, cmd CreateTicketCommand) string {
	if cmd.TemplateName != "" {
		tmpl, err := uc.templates.GetByName(ctx, cmd.TemplateName)
		if err != nil {
			uc.logger.Warnw("greeting template not found, using generic prompt",
				"template", cmd.TemplateName, "error", err)
		} else if reply := tmpl.AutoReplyFor(string(cmd.Kind)); reply != "" {
			return reply
		}
	}
	if cmd.Kind == ticket.KindOrder {
		return genericOrderPrompt
	}
	return genericSupportPrompt
}

func openerLabel(cmd CreateTicketCommand) string {
	if cmd.OpenerName != "" {
		return cmd.OpenerName
	}
	return fmt.Sprintf("user %d", cmd.OpenerID)
}

// channelName derives a readable channel name from the opener. Collision
// handling is the platform adapter's job.
func channelName(kind ticket.Kind, openerName string, openerID int64) string {
	slug := strings.ToLower(strings.TrimSpace(openerName))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '_', r == '.':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = fmt.Sprintf("%d", openerID)
	}
	return fmt.Sprintf("%s-%s", kind, slug)
}
