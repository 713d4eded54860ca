// Package discord implements the primary platform adapter over the
// Discord REST API v10.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ticketbridge/internal/shared/config"
)

const apiBaseURL = "https://discord.com/api/v10"

// Snowflake is a Discord id. The wire format is a decimal string; we keep
// it numeric in memory so the rest of the system never handles id strings.
type Snowflake int64

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(s), 10))), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		// Some gateways send ids as bare numbers.
		raw = string(data)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", raw, err)
	}
	*s = Snowflake(n)
	return nil
}

// Channel is the subset of a channel object the bridge reads back.
type Channel struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

// User is a message author.
type User struct {
	ID       Snowflake `json:"id"`
	Username string    `json:"username"`
	Bot      bool      `json:"bot"`
}

// Attachment is one file attached to a message.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Message is the subset of a message object the bridge reads back.
type Message struct {
	ID          Snowflake    `json:"id"`
	Type        int          `json:"type"`
	Author      User         `json:"author"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	Timestamp   time.Time    `json:"timestamp"`
}

// EmbedImage points at an embed image or thumbnail.
type EmbedImage struct {
	URL string `json:"url"`
}

// Embed is one rich content block in an outbound message.
type Embed struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Image       *EmbedImage `json:"image,omitempty"`
	Thumbnail   *EmbedImage `json:"thumbnail,omitempty"`
}

// ButtonEmoji names a unicode emoji on a component button.
type ButtonEmoji struct {
	Name string `json:"name"`
}

// Component is a message component: an action row or a button inside one.
type Component struct {
	Type       int          `json:"type"`
	Style      int          `json:"style,omitempty"`
	Label      string       `json:"label,omitempty"`
	Emoji      *ButtonEmoji `json:"emoji,omitempty"`
	CustomID   string       `json:"custom_id,omitempty"`
	URL        string       `json:"url,omitempty"`
	Disabled   bool         `json:"disabled,omitempty"`
	Components []Component  `json:"components,omitempty"`
}

// Component type and button style constants from the message components
// wire format.
const (
	componentActionRow = 1
	componentButton    = 2

	buttonStylePrimary   = 1
	buttonStyleSecondary = 2
	buttonStyleSuccess   = 3
	buttonStyleDanger    = 4
	buttonStyleLink      = 5
)

// Permission bits used on ticket channel overwrites.
const (
	permViewChannel        = 1 << 10
	permSendMessages       = 1 << 11
	permReadMessageHistory = 1 << 16
)

// Overwrite target types.
const (
	overwriteRole   = 0
	overwriteMember = 1
)

// PermissionOverwrite grants or denies permission bits for a role or member.
type PermissionOverwrite struct {
	ID    Snowflake `json:"id"`
	Type  int       `json:"type"`
	Allow string    `json:"allow,omitempty"`
	Deny  string    `json:"deny,omitempty"`
}

type createChannelRequest struct {
	Name                 string                `json:"name"`
	Type                 int                   `json:"type"`
	ParentID             Snowflake             `json:"parent_id,omitempty"`
	PermissionOverwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
}

type messageRequest struct {
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Client provides Discord REST API operations.
type Client struct {
	config     config.DiscordConfig
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Discord REST client.
func NewClient(cfg config.DiscordConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: apiBaseURL,
	}
}

// CreateGuildChannel creates a text channel in the configured guild.
func (c *Client) CreateGuildChannel(ctx context.Context, req createChannelRequest) (*Channel, error) {
	path := fmt.Sprintf("/guilds/%d/channels", c.config.GuildID)
	var channel Channel
	if err := c.makeRequest(ctx, http.MethodPost, path, req, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// DeleteChannel deletes a channel.
func (c *Client) DeleteChannel(ctx context.Context, channelID int64) error {
	path := fmt.Sprintf("/channels/%d", channelID)
	return c.makeRequest(ctx, http.MethodDelete, path, nil, nil)
}

// CreateMessage posts a message to a channel and returns it.
func (c *Client) CreateMessage(ctx context.Context, channelID int64, req messageRequest) (*Message, error) {
	path := fmt.Sprintf("/channels/%d/messages", channelID)
	var msg Message
	if err := c.makeRequest(ctx, http.MethodPost, path, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessage replaces the content, embeds and components of a message.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID int64, req messageRequest) error {
	path := fmt.Sprintf("/channels/%d/messages/%d", channelID, messageID)
	return c.makeRequest(ctx, http.MethodPatch, path, req, nil)
}

// GetChannelMessages returns up to limit messages, newest first, as the
// API delivers them.
func (c *Client) GetChannelMessages(ctx context.Context, channelID int64, limit int) ([]Message, error) {
	path := fmt.Sprintf("/channels/%d/messages?limit=%d", channelID, limit)
	var messages []Message
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.config.BotToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call discord api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord api returned %d: %s", resp.StatusCode, truncateBody(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 256
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
