package usecases

import (
	"context"
	"fmt"
	"strings"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

const (
	// digestWindow is how many recent messages a digest summarizes.
	digestWindow = 5

	// digestFetchLimit leaves headroom for filtering out automated messages.
	digestFetchLimit = 50

	// digestMaxRunes keeps the final digest safely under the notification
	// platform's 4096-character message limit.
	digestMaxRunes   = 3800
	truncationMarker = "…"

	digestEmptyLine   = "No messages yet."
	excerptNoContent  = "[no content]"
	excerptAttachment = "[attachment: %s]"
)

type RefreshDigestCommand struct {
	ChannelID int64
}

type RefreshDigestResult struct {
	ChannelID int64
	Refreshed bool
	Edited    int
	Sent      int
}

type RefreshDigestUseCase struct {
	bindings   ticket.BindingRepository
	registry   *registry.Registry
	platform   ports.PlatformSender
	notifier   ports.NotificationSender
	adminChats []int64
	logger     logger.Interface
}

func NewRefreshDigestUseCase(
	bindings ticket.BindingRepository,
	reg *registry.Registry,
	platform ports.PlatformSender,
	notifier ports.NotificationSender,
	adminChats []int64,
	log logger.Interface,
) *RefreshDigestUseCase {
	return &RefreshDigestUseCase{
		bindings:   bindings,
		registry:   reg,
		platform:   platform,
		notifier:   notifier,
		adminChats: adminChats,
		logger:     log,
	}
}

// Execute rebuilds the digest for a channel and upserts it to every
// resolved recipient. Activity on a channel without a binding is a no-op.
func (uc *RefreshDigestUseCase) Execute(ctx context.Context, cmd RefreshDigestCommand) (*RefreshDigestResult, error) {
	if cmd.ChannelID == 0 {
		return nil, errors.NewValidationError("channel id is required")
	}

	result := &RefreshDigestResult{ChannelID: cmd.ChannelID}

	binding, err := uc.bindings.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return result, nil
		}
		return nil, err
	}

	messages, err := uc.platform.FetchRecentMessages(ctx, cmd.ChannelID, digestFetchLimit)
	if err != nil {
		uc.logger.Errorw("failed to fetch channel messages", "channel_id", cmd.ChannelID, "error", err)
		return nil, errors.NewExternalError("failed to fetch channel messages", err)
	}

	// Fetching suspended us; the ticket may have closed in the meantime.
	// The stored binding is the source of truth at send time.
	binding, err = uc.bindings.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			uc.logger.Infow("ticket closed during digest refresh", "channel_id", cmd.ChannelID)
			return result, nil
		}
		return nil, err
	}

	digest := BuildDigest(binding, messages)

	targets := registry.ResolveTargets(binding.Kind(), binding.OpenerID(), uc.registry, uc.adminChats)
	if targets.Len() == 0 {
		uc.logger.Infow("no digest recipients", "channel_id", cmd.ChannelID)
		result.Refreshed = true
		return result, nil
	}

	for _, chat := range targets.Sorted() {
		if messageID, ok := binding.DigestMessageID(chat); ok {
			if err := uc.notifier.EditMessage(ctx, chat, messageID, digest); err != nil {
				uc.logger.Errorw("failed to edit digest",
					"channel_id", cmd.ChannelID, "chat_id", chat, "message_id", messageID, "error", err)
				continue
			}
			result.Edited++
			continue
		}

		messageID, err := uc.notifier.SendMessage(ctx, chat, digest)
		if err != nil {
			uc.logger.Errorw("failed to send digest",
				"channel_id", cmd.ChannelID, "chat_id", chat, "error", err)
			continue
		}

		// Update-only: a binding deleted by a concurrent close must not be
		// written back, so the id goes through the repository instead of
		// mutate-then-save.
		if err := uc.bindings.RecordDigestMessage(ctx, cmd.ChannelID, chat, messageID); err != nil {
			if errors.IsNotFoundError(err) {
				uc.logger.Infow("ticket closed during digest refresh", "channel_id", cmd.ChannelID)
				return result, nil
			}
			uc.logger.Errorw("failed to record digest message id",
				"channel_id", cmd.ChannelID, "chat_id", chat, "error", err)
			continue
		}
		result.Sent++
	}

	result.Refreshed = true
	return result, nil
}

// BuildDigest renders the digest text for a binding from the channel's
// recent messages: a kind/channel header plus up to digestWindow numbered
// excerpt lines, oldest first, truncated to the platform limit.
func BuildDigest(binding *ticket.Binding, messages []ports.ChannelMessage) string {
	var lines []string
	for _, msg := range messages {
		if msg.Automated {
			continue
		}
		lines = append(lines, excerpt(msg))
	}
	if len(lines) > digestWindow {
		lines = lines[len(lines)-digestWindow:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 %s ticket #%s\n", binding.Kind(), binding.ChannelName())
	if len(lines) == 0 {
		b.WriteString(digestEmptyLine)
	}
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s", i+1, line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}

	return truncateRunes(b.String(), digestMaxRunes)
}

func excerpt(msg ports.ChannelMessage) string {
	text := strings.TrimSpace(msg.Content)
	if text == "" && len(msg.Attachments) > 0 {
		text = fmt.Sprintf(excerptAttachment, msg.Attachments[0])
	}
	if text == "" {
		text = excerptNoContent
	}
	return fmt.Sprintf("%s: %s", authorLabel(msg), text)
}

func authorLabel(msg ports.ChannelMessage) string {
	if msg.AuthorName != "" {
		return msg.AuthorName
	}
	return fmt.Sprintf("user %d", msg.AuthorID)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}
