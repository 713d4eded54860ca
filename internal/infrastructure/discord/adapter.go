package discord

import (
	"context"
	"strconv"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/config"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

// Adapter translates the platform port into Discord REST calls.
type Adapter struct {
	client *Client
	config config.DiscordConfig
	logger logger.Interface
}

func NewAdapter(client *Client, cfg config.DiscordConfig, log logger.Interface) *Adapter {
	return &Adapter{
		client: client,
		config: cfg,
		logger: log,
	}
}

var _ ports.PlatformSender = (*Adapter)(nil)

// CreateChannel creates a private ticket channel: hidden from the guild at
// large, visible to the opener and the support role.
func (a *Adapter) CreateChannel(ctx context.Context, name string, perms ports.ChannelPermissions) (int64, error) {
	const memberPerms = permViewChannel | permSendMessages | permReadMessageHistory

	overwrites := []PermissionOverwrite{
		{
			// The @everyone role id equals the guild id.
			ID:   Snowflake(a.config.GuildID),
			Type: overwriteRole,
			Deny: strconv.Itoa(permViewChannel),
		},
		{
			ID:    Snowflake(perms.OpenerID),
			Type:  overwriteMember,
			Allow: strconv.Itoa(memberPerms),
		},
	}
	if a.config.SupportRoleID != 0 {
		overwrites = append(overwrites, PermissionOverwrite{
			ID:    Snowflake(a.config.SupportRoleID),
			Type:  overwriteRole,
			Allow: strconv.Itoa(memberPerms),
		})
	}

	req := createChannelRequest{
		Name:                 name,
		Type:                 0,
		PermissionOverwrites: overwrites,
	}
	if a.config.TicketCategoryID != 0 {
		req.ParentID = Snowflake(a.config.TicketCategoryID)
	}

	channel, err := a.client.CreateGuildChannel(ctx, req)
	if err != nil {
		return 0, errors.NewExternalError("failed to create channel", err)
	}
	a.logger.Infow("created ticket channel", "channel_id", int64(channel.ID), "name", channel.Name)
	return int64(channel.ID), nil
}

func (a *Adapter) DeleteChannel(ctx context.Context, channelID int64) error {
	if err := a.client.DeleteChannel(ctx, channelID); err != nil {
		return errors.NewExternalError("failed to delete channel", err)
	}
	return nil
}

func (a *Adapter) SendMessage(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
	msg, err := a.client.CreateMessage(ctx, channelID, buildMessageRequest(content))
	if err != nil {
		return 0, errors.NewExternalError("failed to send channel message", err)
	}
	return int64(msg.ID), nil
}

func (a *Adapter) EditMessage(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error {
	if err := a.client.EditMessage(ctx, channelID, messageID, buildMessageRequest(content)); err != nil {
		return errors.NewExternalError("failed to edit channel message", err)
	}
	return nil
}

// FetchRecentMessages returns up to limit messages in chronological order,
// oldest first.
func (a *Adapter) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
	raw, err := a.client.GetChannelMessages(ctx, channelID, limit)
	if err != nil {
		return nil, errors.NewExternalError("failed to fetch channel messages", err)
	}

	// The API delivers newest first.
	out := make([]ports.ChannelMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		out = append(out, toChannelMessage(raw[i]))
	}
	return out, nil
}

// Regular message types carry user content; everything else is a system
// message.
const (
	messageTypeDefault = 0
	messageTypeReply   = 19
)

func toChannelMessage(msg Message) ports.ChannelMessage {
	out := ports.ChannelMessage{
		ID:         int64(msg.ID),
		AuthorID:   int64(msg.Author.ID),
		AuthorName: msg.Author.Username,
		Content:    msg.Content,
		Automated:  msg.Author.Bot || (msg.Type != messageTypeDefault && msg.Type != messageTypeReply),
	}
	for _, att := range msg.Attachments {
		out.Attachments = append(out.Attachments, att.Filename)
	}
	return out
}

func buildMessageRequest(content ports.MessageContent) messageRequest {
	req := messageRequest{Content: content.Text}
	if content.Panel == nil {
		return req
	}
	req.Embeds = buildEmbeds(content.Panel.Blocks)
	req.Components = buildComponents(content.Panel.Buttons)
	return req
}

func buildEmbeds(blocks []template.RenderedBlock) []Embed {
	var embeds []Embed
	for _, block := range blocks {
		if block.Title == "" && block.Description == "" && block.ImageURL == "" {
			continue
		}
		embed := Embed{
			Title:       block.Title,
			Description: block.Description,
			Color:       block.Color,
		}
		if block.ImageURL != "" {
			if block.ImagePosition == template.ImageTop {
				embed.Thumbnail = &EmbedImage{URL: block.ImageURL}
			} else {
				embed.Image = &EmbedImage{URL: block.ImageURL}
			}
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

// buildComponents groups rendered buttons into action rows. Buttons arrive
// already ordered by row; each distinct row becomes one action row, capped
// at the platform limits of 5 rows and 5 buttons per row.
func buildComponents(buttons []template.RenderedButton) []Component {
	const (
		maxRows          = 5
		maxButtonsPerRow = 5
	)

	var rows []Component
	lastRow := -1
	for _, b := range buttons {
		needNewRow := lastRow != b.Row ||
			len(rows) > 0 && len(rows[len(rows)-1].Components) >= maxButtonsPerRow
		if needNewRow {
			if len(rows) >= maxRows {
				break
			}
			rows = append(rows, Component{Type: componentActionRow})
			lastRow = b.Row
		}
		row := &rows[len(rows)-1]
		row.Components = append(row.Components, buildButton(b))
	}
	return rows
}

func buildButton(b template.RenderedButton) Component {
	c := Component{
		Type:     componentButton,
		Label:    b.Label,
		Disabled: b.Disabled,
	}
	if b.Emoji != "" {
		c.Emoji = &ButtonEmoji{Name: b.Emoji}
	}
	if b.URL != "" {
		c.Style = buttonStyleLink
		c.URL = b.URL
		return c
	}
	c.Style = buttonStyle(b.Style)
	c.CustomID = b.CustomID
	return c
}

func buttonStyle(style template.ButtonStyle) int {
	switch style {
	case template.StylePrimary:
		return buttonStylePrimary
	case template.StyleSuccess:
		return buttonStyleSuccess
	case template.StyleDanger:
		return buttonStyleDanger
	default:
		return buttonStyleSecondary
	}
}
