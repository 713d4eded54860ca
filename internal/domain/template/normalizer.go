package template

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"ticketbridge/internal/shared/errors"
)

// Normalize validates and migrates a raw template document into the
// canonical Template shape. Unknown fields are dropped. Normalization is
// idempotent: feeding a canonical template's Document() back through
// Normalize yields the same template.
func Normalize(doc map[string]any) (*Template, error) {
	if doc == nil {
		return nil, errors.NewValidationError("template document is nil")
	}

	t := &Template{
		Name:      strings.ToLower(strings.TrimSpace(asString(doc["name"]))),
		ChannelID: asInt64(doc["channelId"]),
		Block: ContentBlock{
			Title:         asString(doc["title"]),
			Description:   asString(doc["description"]),
			ColorHex:      normalizeHex(asString(doc["colorHex"])),
			ImageURL:      asString(doc["imageUrl"]),
			ImagePosition: ParseImagePosition(asString(doc["imagePosition"])),
			ButtonRow:     clampRow(asInt(doc["buttonRow"])),
		},
		OrderReply:    asString(doc["orderReply"]),
		SupportReply:  asString(doc["supportReply"]),
		LastMessageID: asInt64(doc["lastMessageId"]),
	}

	// A missing name is recoverable: bulk loads must tolerate corrupt
	// records, so generate a stable placeholder instead of failing.
	if t.Name == "" {
		t.Name = placeholderName(t)
	}

	if asBool(doc["gradientEnabled"]) {
		start := asString(doc["startColorHex"])
		end := asString(doc["endColorHex"])
		if isHex6(start) && isHex6(end) {
			t.UseGradient = true
			t.StartColorHex = strings.ToUpper(start)
			t.EndColorHex = strings.ToUpper(end)
		}
	}

	for _, raw := range asSlice(doc["extraBlocks"]) {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		t.ExtraBlocks = append(t.ExtraBlocks, ContentBlock{
			Title:         asString(block["title"]),
			Description:   asString(block["description"]),
			ColorHex:      normalizeHex(asString(block["colorHex"])),
			ImageURL:      asString(block["imageUrl"]),
			ImagePosition: ParseImagePosition(asString(block["imagePosition"])),
			ButtonRow:     clampRow(asInt(block["buttonRow"])),
		})
	}

	// Legacy split-panel fields migrate into one appended extra block,
	// then disappear: they are simply never read into the canonical shape.
	if asBool(doc["splitEnabled"]) {
		splitTitle := asString(doc["splitTitle"])
		splitDescription := asString(doc["splitDescription"])
		if splitTitle != "" || splitDescription != "" {
			t.ExtraBlocks = append(t.ExtraBlocks, ContentBlock{
				Title:         splitTitle,
				Description:   splitDescription,
				ColorHex:      normalizeHex(asString(doc["splitColorHex"])),
				ImagePosition: ImageTop,
			})
		}
	}

	for _, raw := range asSlice(doc["panelButtons"]) {
		button, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		t.Buttons = append(t.Buttons, normalizeButton(button))
	}

	t.HasActionableButtons = hasActionableButtons(t)
	t.IsTicketPanel = asBool(doc["isTicketPanel"]) || opensTickets(t)

	return t, nil
}

func normalizeButton(raw map[string]any) PanelButton {
	b := PanelButton{
		Label:  asString(raw["label"]),
		Emoji:  asString(raw["emoji"]),
		Style:  ParseButtonStyle(asString(raw["style"])),
		Action: ParseButtonAction(asString(raw["action"])),
		URL:    asString(raw["url"]),
		Row:    clampRow(asInt(raw["row"])),
	}
	if b.Action == ActionOpenURL && b.URL == "" {
		b.Action = ActionNone
	}
	return b
}

// hasActionableButtons covers structured buttons and buttons declared
// through description tags, so the flag never has to be re-inferred at
// render or restore time.
func hasActionableButtons(t *Template) bool {
	for _, b := range t.Buttons {
		if b.IsActionable() {
			return true
		}
	}
	for _, b := range tagButtons(t) {
		if b.IsActionable() {
			return true
		}
	}
	return false
}

func opensTickets(t *Template) bool {
	for _, b := range t.Buttons {
		if b.OpensTicket() {
			return true
		}
	}
	for _, b := range tagButtons(t) {
		if b.OpensTicket() {
			return true
		}
	}
	return false
}

func tagButtons(t *Template) []PanelButton {
	_, buttons := CompileButtonTags(t.Block.Description, t.Block.ButtonRow)
	for _, block := range t.ExtraBlocks {
		_, more := CompileButtonTags(block.Description, block.ButtonRow)
		buttons = append(buttons, more...)
	}
	return buttons
}

// placeholderName derives a stable name from the document content so that
// repeated normalization of the same corrupt record converges.
func placeholderName(t *Template) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d", t.Block.Title, t.Block.Description, t.ChannelID)
	return fmt.Sprintf("unnamed-%08x", h.Sum32())
}

func normalizeHex(raw string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if !isHex6(raw) {
		return DefaultColorHex
	}
	return strings.ToUpper(raw)
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

func clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row > 4 {
		return 4
	}
	return row
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asInt64 accepts the numeric shapes a JSON decode or an in-memory document
// can carry.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func asInt(v any) int {
	return int(asInt64(v))
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
