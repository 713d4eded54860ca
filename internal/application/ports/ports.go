// Package ports declares the collaborator interfaces the application layer
// consumes: the primary platform, the notification platform, and the
// archive collector. Infrastructure adapters implement them; use cases
// across the application layer share them.
package ports

import (
	"context"

	"ticketbridge/internal/domain/template"
)

// ChannelPermissions describes who can see a freshly created ticket
// channel besides the staff roles the adapter configures.
type ChannelPermissions struct {
	OpenerID int64
}

// ChannelMessage is one message fetched from a ticket channel.
type ChannelMessage struct {
	ID          int64
	AuthorID    int64
	AuthorName  string
	Content     string
	Attachments []string

	// Automated marks bot and system messages, which never appear in
	// digests.
	Automated bool
}

// MessageContent is a platform-neutral outbound message. Panel carries the
// rendered blocks and interactive elements when the message is more than
// plain text.
type MessageContent struct {
	Text  string
	Panel *template.RenderSpec
}

// PlatformSender is the primary platform port: channel and message
// operations on the guild side of the bridge.
type PlatformSender interface {
	CreateChannel(ctx context.Context, name string, perms ChannelPermissions) (int64, error)
	DeleteChannel(ctx context.Context, channelID int64) error
	SendMessage(ctx context.Context, channelID int64, content MessageContent) (int64, error)
	EditMessage(ctx context.Context, channelID, messageID int64, content MessageContent) error

	// FetchRecentMessages returns up to limit most recent messages in
	// chronological order, oldest first.
	FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]ChannelMessage, error)
}

// InlineButton is one pressable element attached to a notification message.
// Data comes back verbatim in the press callback.
type InlineButton struct {
	Label string
	Data  string
}

// Artifact is one archived file produced when a ticket closes.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// NotificationSender is the notification platform port: plain messages,
// in-place edits for digests, documents, and button prompts.
type NotificationSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, artifact Artifact) error
	SendMessageWithButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) (int64, error)
}

// ArchiveCollector builds the transcript artifacts for a closing ticket.
type ArchiveCollector interface {
	Collect(ctx context.Context, channelID int64) ([]Artifact, error)
}
