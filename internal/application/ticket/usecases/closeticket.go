package usecases

import (
	"context"
	"fmt"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

// RatingCallbackPrefix keys the outcome-rating button callbacks. The full
// payload is "rate:<channelId>:<outcome>".
const RatingCallbackPrefix = "rate:"

// RatingOutcomes are the choices offered in the closure rating prompt.
var RatingOutcomes = []string{"success", "neutral", "failed"}

type CloseTicketCommand struct {
	ChannelID int64
	ClosedBy  int64
}

type CloseTicketResult struct {
	ChannelID      int64
	ChannelName    string
	Notified       []int64
	ArtifactCount  int
	ChannelDeleted bool
}

type CloseTicketUseCase struct {
	bindings   ticket.BindingRepository
	registry   *registry.Registry
	platform   ports.PlatformSender
	notifier   ports.NotificationSender
	archive    ports.ArchiveCollector
	adminChats []int64
	logger     logger.Interface
}

func NewCloseTicketUseCase(
	bindings ticket.BindingRepository,
	reg *registry.Registry,
	platform ports.PlatformSender,
	notifier ports.NotificationSender,
	archive ports.ArchiveCollector,
	adminChats []int64,
	log logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		bindings:   bindings,
		registry:   reg,
		platform:   platform,
		notifier:   notifier,
		archive:    archive,
		adminChats: adminChats,
		logger:     log,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	if cmd.ChannelID == 0 {
		return nil, errors.NewValidationError("channel id is required")
	}

	binding, err := uc.bindings.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		uc.logger.Errorw("no binding for channel", "channel_id", cmd.ChannelID, "error", err)
		return nil, errors.NewNotFoundError(fmt.Sprintf("no ticket bound to channel %d", cmd.ChannelID))
	}

	targets := registry.ResolveTargets(binding.Kind(), binding.OpenerID(), uc.registry, uc.adminChats)
	if targets.Len() == 0 {
		uc.logger.Infow("no notification recipients for closure", "channel_id", cmd.ChannelID)
	}
	recipients := targets.Sorted()

	closed := fmt.Sprintf("✅ %s ticket #%s closed by user %d", binding.Kind(), binding.ChannelName(), cmd.ClosedBy)
	var notified []int64
	for _, chat := range recipients {
		if _, err := uc.notifier.SendMessage(ctx, chat, closed); err != nil {
			uc.logger.Errorw("failed to send closure notice",
				"channel_id", cmd.ChannelID, "chat_id", chat, "error", err)
			continue
		}
		notified = append(notified, chat)
	}

	artifacts, err := uc.archive.Collect(ctx, cmd.ChannelID)
	if err != nil {
		uc.logger.Errorw("failed to collect ticket archive", "channel_id", cmd.ChannelID, "error", err)
		artifacts = nil
	}
	for _, chat := range recipients {
		for _, artifact := range artifacts {
			if err := uc.notifier.SendDocument(ctx, chat, artifact); err != nil {
				uc.logger.Errorw("failed to deliver archive file",
					"channel_id", cmd.ChannelID, "chat_id", chat, "file", artifact.Name, "error", err)
			}
		}
	}

	prompt := fmt.Sprintf("How did %s ticket #%s go?", binding.Kind(), binding.ChannelName())
	buttons := ratingButtons(cmd.ChannelID)
	for _, chat := range recipients {
		if _, err := uc.notifier.SendMessageWithButtons(ctx, chat, prompt, buttons); err != nil {
			uc.logger.Errorw("failed to send rating prompt",
				"channel_id", cmd.ChannelID, "chat_id", chat, "error", err)
		}
	}

	// The binding may have been removed by a concurrent close while we were
	// sending; a missing binding here is a no-op, not a failure.
	if err := uc.bindings.Delete(ctx, cmd.ChannelID); err != nil {
		if errors.IsNotFoundError(err) {
			uc.logger.Infow("binding already removed", "channel_id", cmd.ChannelID)
		} else {
			uc.logger.Errorw("failed to remove ticket binding", "channel_id", cmd.ChannelID, "error", err)
			return nil, errors.NewInternalError("failed to remove ticket binding")
		}
	}

	deleted := true
	if err := uc.platform.DeleteChannel(ctx, cmd.ChannelID); err != nil {
		uc.logger.Errorw("failed to delete ticket channel", "channel_id", cmd.ChannelID, "error", err)
		deleted = false
	}

	uc.logger.Infow("ticket closed",
		"channel_id", cmd.ChannelID, "closed_by", cmd.ClosedBy, "recipients", len(recipients))

	return &CloseTicketResult{
		ChannelID:      cmd.ChannelID,
		ChannelName:    binding.ChannelName(),
		Notified:       notified,
		ArtifactCount:  len(artifacts),
		ChannelDeleted: deleted,
	}, nil
}

func ratingButtons(channelID int64) [][]ports.InlineButton {
	row := make([]ports.InlineButton, 0, len(RatingOutcomes))
	for _, outcome := range RatingOutcomes {
		row = append(row, ports.InlineButton{
			Label: outcome,
			Data:  fmt.Sprintf("%s%d:%s", RatingCallbackPrefix, channelID, outcome),
		})
	}
	return [][]ports.InlineButton{row}
}
