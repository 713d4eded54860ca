package usecases

import (
	"context"
	"fmt"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type RelayReplyCommand struct {
	// ChatID and MessageID identify the notification message the reply
	// targets.
	ChatID    int64
	MessageID int64

	Author string
	Text   string
}

type RelayReplyResult struct {
	ChannelID int64
	Relayed   bool
}

// RelayReplyUseCase bridges the notification platform back to the primary
// platform: a reply to a ticket's digest message is posted into the ticket
// channel. Replies to anything else are ignored.
type RelayReplyUseCase struct {
	bindings ticket.BindingRepository
	platform ports.PlatformSender
	logger   logger.Interface
}

func NewRelayReplyUseCase(
	bindings ticket.BindingRepository,
	platform ports.PlatformSender,
	log logger.Interface,
) *RelayReplyUseCase {
	return &RelayReplyUseCase{bindings: bindings, platform: platform, logger: log}
}

func (uc *RelayReplyUseCase) Execute(ctx context.Context, cmd RelayReplyCommand) (*RelayReplyResult, error) {
	if cmd.ChatID == 0 || cmd.MessageID == 0 {
		return nil, errors.NewValidationError("chat id and message id are required")
	}
	if cmd.Text == "" {
		return &RelayReplyResult{}, nil
	}

	binding, err := uc.findByDigestMessage(ctx, cmd.ChatID, cmd.MessageID)
	if err != nil {
		return nil, err
	}
	if binding == nil {
		return &RelayReplyResult{}, nil
	}

	author := cmd.Author
	if author == "" {
		author = "Telegram user"
	}
	text := fmt.Sprintf("📨 TG %s: %s", author, cmd.Text)
	if _, err := uc.platform.SendMessage(ctx, binding.ChannelID(), ports.MessageContent{Text: text}); err != nil {
		uc.logger.Errorw("failed to relay reply to ticket channel",
			"channel_id", binding.ChannelID(), "chat_id", cmd.ChatID, "error", err)
		return nil, errors.NewExternalError("failed to relay reply", err)
	}

	uc.logger.Infow("reply relayed to ticket channel",
		"channel_id", binding.ChannelID(), "chat_id", cmd.ChatID, "author", author)
	return &RelayReplyResult{ChannelID: binding.ChannelID(), Relayed: true}, nil
}

func (uc *RelayReplyUseCase) findByDigestMessage(ctx context.Context, chatID, messageID int64) (*ticket.Binding, error) {
	bindings, err := uc.bindings.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, binding := range bindings {
		if id, ok := binding.DigestMessageID(chatID); ok && id == messageID {
			return binding, nil
		}
	}
	return nil, nil
}
