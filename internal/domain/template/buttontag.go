package template

import (
	"strconv"
	"strings"
)

// Button tags let free-form description text declare interactive buttons
// without a structured editor:
//
//	{{btn:LABEL|ACTION|STYLE|POSITION|EMOJI|EXTRA}}
//
// Fields 3-6 are optional. Tags that cannot be resolved (fewer than two
// fields, unknown action) are left in the text character-for-character.
const (
	tagOpen  = "{{btn:"
	tagClose = "}}"
)

// CompileButtonTags scans text left to right, extracts every recognized
// button tag, and returns the cleaned text plus the extracted buttons in
// order of appearance. Each recognized tag is replaced by "emoji label"
// (just the label when the emoji is blank), so no tag syntax survives into
// rendered output. defaultRow is used when a tag carries no position.
func CompileButtonTags(text string, defaultRow int) (string, []PanelButton) {
	var out strings.Builder
	var buttons []PanelButton

	for {
		start := strings.Index(text, tagOpen)
		if start < 0 {
			out.WriteString(text)
			break
		}
		end := strings.Index(text[start:], tagClose)
		if end < 0 {
			out.WriteString(text)
			break
		}
		end += start

		out.WriteString(text[:start])
		tag := text[start : end+len(tagClose)]
		payload := text[start+len(tagOpen) : end]

		button, ok := parseTag(payload, defaultRow)
		if !ok {
			out.WriteString(tag)
		} else {
			out.WriteString(buttonText(button))
			buttons = append(buttons, button)
		}
		text = text[end+len(tagClose):]
	}

	return out.String(), buttons
}

func buttonText(b PanelButton) string {
	if b.Emoji != "" {
		return b.Emoji + " " + b.Label
	}
	return b.Label
}

func parseTag(payload string, defaultRow int) (PanelButton, bool) {
	fields := strings.Split(payload, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 2 || fields[0] == "" {
		return PanelButton{}, false
	}

	action, ok := resolveTagAction(fields[1])
	if !ok {
		return PanelButton{}, false
	}

	b := PanelButton{
		Label:  fields[0],
		Action: action,
		Style:  StyleSecondary,
		Row:    defaultRow,
	}
	if len(fields) > 2 {
		b.Style = ParseButtonStyle(fields[2])
	}
	if len(fields) > 3 {
		b.Row = resolveTagRow(fields[3], defaultRow)
	}
	if len(fields) > 4 {
		b.Emoji = fields[4]
	}
	if len(fields) > 5 {
		b.URL = fields[5]
	}

	// A url action without a usable URL degrades to plain label text.
	if b.Action == ActionOpenURL && b.URL == "" {
		b.Action = ActionNone
	}
	return b, true
}

// resolveTagAction maps the free-form action synonyms authors actually type
// to a canonical action. Unknown actions invalidate the whole tag.
func resolveTagAction(raw string) (ButtonAction, bool) {
	key := strings.ToLower(raw)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "order", "openorder", "openorderticket", "orderticket", "neworder":
		return ActionOpenOrder, true
	case "support", "opensupport", "opensupportticket", "supportticket", "helpdesk":
		return ActionOpenSupport, true
	case "url", "link", "openurl", "openlink", "website":
		return ActionOpenURL, true
	default:
		return ActionNone, false
	}
}

// resolveTagRow understands "bottom" (last row) and "row<N>" tokens.
// Everything else falls back to the block's declared row.
func resolveTagRow(raw string, defaultRow int) int {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "bottom" {
		return 4
	}
	if n, ok := strings.CutPrefix(key, "row"); ok {
		if row, err := strconv.Atoi(n); err == nil {
			return clampRow(row)
		}
	}
	return defaultRow
}
