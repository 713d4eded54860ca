package template

import (
	"sort"
	"strconv"
)

// Custom ids carried by interactive elements. Presses come back as opaque
// strings and are dispatched by a single generic handler, so these are the
// whole contract between rendering and dispatch.
const (
	CustomIDOpenOrder   = "ticket:open:order"
	CustomIDOpenSupport = "ticket:open:support"
	CustomIDClose       = "ticket:close"
)

// RenderedBlock is one panel section with its color already resolved.
type RenderedBlock struct {
	Title         string
	Description   string
	Color         int
	ImageURL      string
	ImagePosition ImagePosition
}

// RenderedButton is one interactive element of a rendered panel.
type RenderedButton struct {
	Label    string
	Emoji    string
	Style    ButtonStyle
	Row      int
	CustomID string
	URL      string
	Disabled bool
}

// RenderSpec is the platform-neutral result of rendering a template. The
// platform adapter translates it into concrete wire payloads.
type RenderSpec struct {
	Blocks  []RenderedBlock
	Buttons []RenderedButton

	// Interactive is false for purely informational panels, which are sent
	// as static messages with no component rows.
	Interactive bool
}

// Render compiles the template into a render spec. Description button tags
// are compiled out of the text here, so rendered blocks never contain tag
// syntax. Buttons are ordered by row ascending with insertion order
// preserved inside a row: structured buttons first, then tag buttons in
// order of appearance.
func Render(t *Template) RenderSpec {
	var spec RenderSpec

	mainText, mainButtons := CompileButtonTags(t.Block.Description, t.Block.ButtonRow)
	spec.Blocks = append(spec.Blocks, RenderedBlock{
		Title:         t.Block.Title,
		Description:   mainText,
		Color:         t.mainColor(),
		ImageURL:      t.Block.ImageURL,
		ImagePosition: t.Block.ImagePosition,
	})

	buttons := append([]PanelButton(nil), t.Buttons...)
	buttons = append(buttons, mainButtons...)

	for _, block := range t.ExtraBlocks {
		text, more := CompileButtonTags(block.Description, block.ButtonRow)
		spec.Blocks = append(spec.Blocks, RenderedBlock{
			Title:         block.Title,
			Description:   text,
			Color:         hexToColor(block.ColorHex),
			ImageURL:      block.ImageURL,
			ImagePosition: block.ImagePosition,
		})
		buttons = append(buttons, more...)
	}

	for _, b := range buttons {
		if !b.IsActionable() {
			continue
		}
		spec.Buttons = append(spec.Buttons, renderButton(b))
	}
	sort.SliceStable(spec.Buttons, func(i, j int) bool {
		return spec.Buttons[i].Row < spec.Buttons[j].Row
	})

	spec.Interactive = len(spec.Buttons) > 0 || t.IsTicketPanel
	return spec
}

// CloseButtonSpec is the single close control attached to every ticket
// channel greeting.
func CloseButtonSpec() RenderedButton {
	return RenderedButton{
		Label:    "Close ticket",
		Emoji:    "🗑️",
		Style:    StyleDanger,
		CustomID: CustomIDClose,
	}
}

func renderButton(b PanelButton) RenderedButton {
	r := RenderedButton{
		Label: b.Label,
		Emoji: b.Emoji,
		Style: b.Style,
		Row:   b.Row,
	}
	switch b.Action {
	case ActionOpenOrder:
		r.CustomID = CustomIDOpenOrder
	case ActionOpenSupport:
		r.CustomID = CustomIDOpenSupport
	case ActionOpenURL:
		r.URL = b.URL
	}
	return r
}

// mainColor resolves the main block color, blending start and end as the
// per-channel integer midpoint when gradient mode is on.
func (t *Template) mainColor() int {
	if !t.UseGradient {
		return hexToColor(t.Block.ColorHex)
	}
	return blendMidpoint(hexToColor(t.StartColorHex), hexToColor(t.EndColorHex))
}

func blendMidpoint(a, b int) int {
	r := ((a>>16)&0xFF + (b>>16)&0xFF) / 2
	g := ((a>>8)&0xFF + (b>>8)&0xFF) / 2
	bl := (a&0xFF + b&0xFF) / 2
	return r<<16 | g<<8 | bl
}

func hexToColor(hex string) int {
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		n, _ = strconv.ParseUint(DefaultColorHex, 16, 32)
	}
	return int(n)
}
