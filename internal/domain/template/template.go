// Package template holds the canonical panel template model: reusable,
// named panel definitions with content blocks, interactive buttons, and
// the inline button-tag mini-language embedded in free text.
package template

import "strings"

// DefaultColorHex is used when a document carries no usable panel color.
const DefaultColorHex = "2ECC71"

// ButtonStyle is the visual style of a panel button.
type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
	StyleSuccess   ButtonStyle = "success"
	StyleDanger    ButtonStyle = "danger"
)

// ParseButtonStyle maps a raw style string to a supported style.
// Unknown values degrade to secondary.
func ParseButtonStyle(raw string) ButtonStyle {
	switch ButtonStyle(strings.ToLower(strings.TrimSpace(raw))) {
	case StylePrimary:
		return StylePrimary
	case StyleSuccess:
		return StyleSuccess
	case StyleDanger:
		return StyleDanger
	case StyleSecondary:
		return StyleSecondary
	default:
		return StyleSecondary
	}
}

// ButtonAction is what pressing a panel button does.
type ButtonAction string

const (
	ActionOpenOrder   ButtonAction = "openOrderTicket"
	ActionOpenSupport ButtonAction = "openSupportTicket"
	ActionOpenURL     ButtonAction = "openUrl"
	ActionNone        ButtonAction = "none"
)

// ParseButtonAction maps a raw action string to a supported action.
// The legacy "link" value aliases to openUrl; unknown values degrade to none.
func ParseButtonAction(raw string) ButtonAction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openorderticket":
		return ActionOpenOrder
	case "opensupportticket":
		return ActionOpenSupport
	case "openurl", "link":
		return ActionOpenURL
	default:
		return ActionNone
	}
}

// ImagePosition places a block image above or below the text.
type ImagePosition string

const (
	ImageTop    ImagePosition = "top"
	ImageBottom ImagePosition = "bottom"
)

// ParseImagePosition defaults to top for unknown values.
func ParseImagePosition(raw string) ImagePosition {
	if ImagePosition(strings.ToLower(strings.TrimSpace(raw))) == ImageBottom {
		return ImageBottom
	}
	return ImageTop
}

// PanelButton is one interactive element of a panel. Buttons are plain data
// records; dispatch happens through a generic handler keyed by the rendered
// custom id, never through per-button callbacks.
type PanelButton struct {
	Label  string
	Emoji  string
	Style  ButtonStyle
	Action ButtonAction
	URL    string
	Row    int
}

// IsActionable reports whether pressing the button does anything. A url
// action without a URL renders as label text only.
func (b PanelButton) IsActionable() bool {
	switch b.Action {
	case ActionOpenOrder, ActionOpenSupport:
		return true
	case ActionOpenURL:
		return b.URL != ""
	default:
		return false
	}
}

// OpensTicket reports whether the button opens a ticket when pressed.
func (b PanelButton) OpensTicket() bool {
	return b.Action == ActionOpenOrder || b.Action == ActionOpenSupport
}

// ContentBlock is one rendered section of a panel.
type ContentBlock struct {
	Title         string
	Description   string
	ColorHex      string
	ImageURL      string
	ImagePosition ImagePosition
	ButtonRow     int
}

// Template is the canonical, normalized panel definition. Raw documents are
// turned into this shape by Normalize; nothing else in the system reads raw
// template documents.
type Template struct {
	Name      string
	ChannelID int64

	Block         ContentBlock
	UseGradient   bool
	StartColorHex string
	EndColorHex   string
	ExtraBlocks   []ContentBlock

	Buttons []PanelButton

	OrderReply   string
	SupportReply string

	// IsTicketPanel marks the template as a ticket-opening panel. It is set
	// explicitly or derived from the presence of ticket-opening buttons,
	// decided once during normalization.
	IsTicketPanel bool

	// HasActionableButtons is derived during normalization and covers both
	// structured buttons and buttons declared through description tags.
	HasActionableButtons bool

	LastMessageID int64
}

// AutoReplyFor returns the canned greeting for a ticket kind, or "" when the
// template has none configured.
func (t *Template) AutoReplyFor(kind string) string {
	switch kind {
	case "order":
		return t.OrderReply
	case "support":
		return t.SupportReply
	default:
		return ""
	}
}

// Document converts the template back to its persisted document shape.
// Only canonical fields appear; legacy fields never survive normalization.
func (t *Template) Document() map[string]any {
	doc := map[string]any{
		"name":          t.Name,
		"channelId":     t.ChannelID,
		"title":         t.Block.Title,
		"description":   t.Block.Description,
		"colorHex":      t.Block.ColorHex,
		"imageUrl":      t.Block.ImageURL,
		"imagePosition": string(t.Block.ImagePosition),
		"buttonRow":     t.Block.ButtonRow,
		"orderReply":    t.OrderReply,
		"supportReply":  t.SupportReply,
		"isTicketPanel": t.IsTicketPanel,
		"lastMessageId": t.LastMessageID,
	}
	if t.UseGradient {
		doc["gradientEnabled"] = true
		doc["startColorHex"] = t.StartColorHex
		doc["endColorHex"] = t.EndColorHex
	}
	if len(t.ExtraBlocks) > 0 {
		blocks := make([]any, 0, len(t.ExtraBlocks))
		for _, b := range t.ExtraBlocks {
			blocks = append(blocks, map[string]any{
				"title":         b.Title,
				"description":   b.Description,
				"colorHex":      b.ColorHex,
				"imageUrl":      b.ImageURL,
				"imagePosition": string(b.ImagePosition),
				"buttonRow":     b.ButtonRow,
			})
		}
		doc["extraBlocks"] = blocks
	}
	if len(t.Buttons) > 0 {
		buttons := make([]any, 0, len(t.Buttons))
		for _, b := range t.Buttons {
			buttons = append(buttons, map[string]any{
				"label":  b.Label,
				"emoji":  b.Emoji,
				"style":  string(b.Style),
				"action": string(b.Action),
				"url":    b.URL,
				"row":    b.Row,
			})
		}
		doc["panelButtons"] = buttons
	}
	return doc
}
