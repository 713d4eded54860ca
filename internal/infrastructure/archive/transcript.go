// Package archive builds the transcript artifacts attached to ticket
// close notifications.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

// transcriptFetchLimit bounds how much history one transcript covers.
const transcriptFetchLimit = 100

// TranscriptCollector assembles a plain text and a structured JSON
// transcript of a ticket channel.
type TranscriptCollector struct {
	platform ports.PlatformSender
	logger   logger.Interface
}

func NewTranscriptCollector(platform ports.PlatformSender, log logger.Interface) *TranscriptCollector {
	return &TranscriptCollector{
		platform: platform,
		logger:   log,
	}
}

var _ ports.ArchiveCollector = (*TranscriptCollector)(nil)

type transcriptEntry struct {
	MessageID   int64    `json:"messageId"`
	AuthorID    int64    `json:"authorId"`
	AuthorName  string   `json:"authorName,omitempty"`
	Content     string   `json:"content,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
	Automated   bool     `json:"automated,omitempty"`
}

// Collect fetches the channel history and renders it twice: a readable
// text file and a JSON file carrying the full records. An empty channel
// still yields both artifacts.
func (c *TranscriptCollector) Collect(ctx context.Context, channelID int64) ([]ports.Artifact, error) {
	messages, err := c.platform.FetchRecentMessages(ctx, channelID, transcriptFetchLimit)
	if err != nil {
		return nil, errors.NewExternalError("failed to fetch channel history", err)
	}

	text := renderText(channelID, messages)
	structured, err := renderJSON(channelID, messages)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode transcript", err.Error())
	}

	c.logger.Debugw("collected transcript", "channel_id", channelID, "messages", len(messages))
	return []ports.Artifact{
		{
			Name:        fmt.Sprintf("transcript-%d.txt", channelID),
			ContentType: "text/plain",
			Data:        text,
		},
		{
			Name:        fmt.Sprintf("transcript-%d.json", channelID),
			ContentType: "application/json",
			Data:        structured,
		},
	}, nil
}

func renderText(channelID int64, messages []ports.ChannelMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Transcript of channel %d (%d messages)\n\n", channelID, len(messages))
	for _, msg := range messages {
		author := msg.AuthorName
		if author == "" {
			author = fmt.Sprintf("user %d", msg.AuthorID)
		}
		if msg.Automated {
			author += " [bot]"
		}
		fmt.Fprintf(&b, "%s: %s\n", author, msg.Content)
		for _, att := range msg.Attachments {
			fmt.Fprintf(&b, "  [attachment: %s]\n", att)
		}
	}
	return []byte(b.String())
}

func renderJSON(channelID int64, messages []ports.ChannelMessage) ([]byte, error) {
	entries := make([]transcriptEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, transcriptEntry{
			MessageID:   msg.ID,
			AuthorID:    msg.AuthorID,
			AuthorName:  msg.AuthorName,
			Content:     msg.Content,
			Attachments: msg.Attachments,
			Automated:   msg.Automated,
		})
	}
	return json.MarshalIndent(map[string]any{
		"channelId": channelID,
		"messages":  entries,
	}, "", "  ")
}
