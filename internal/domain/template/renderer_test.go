package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("single green panel with one order button", func(t *testing.T) {
		tmpl, err := Normalize(panelDocument())
		require.NoError(t, err)

		spec := Render(tmpl)

		require.Len(t, spec.Blocks, 1)
		assert.Equal(t, "Orders", spec.Blocks[0].Title)
		assert.Equal(t, "Describe your job", spec.Blocks[0].Description)
		assert.Equal(t, 0x2ECC71, spec.Blocks[0].Color)

		require.Len(t, spec.Buttons, 1)
		assert.Equal(t, "Order", spec.Buttons[0].Label)
		assert.Equal(t, CustomIDOpenOrder, spec.Buttons[0].CustomID)
		assert.True(t, spec.Interactive)
	})

	t.Run("gradient blends per channel midpoint", func(t *testing.T) {
		tmpl := &Template{
			Block:         ContentBlock{ColorHex: "FFFFFF"},
			UseGradient:   true,
			StartColorHex: "FF0000",
			EndColorHex:   "0000FF",
		}

		spec := Render(tmpl)

		require.Len(t, spec.Blocks, 1)
		assert.Equal(t, 0x7F007F, spec.Blocks[0].Color)
	})

	t.Run("tag syntax is compiled out of descriptions", func(t *testing.T) {
		tmpl := &Template{
			Block: ContentBlock{
				Description: "Start {{btn:Order|order|success}} now",
			},
		}

		spec := Render(tmpl)

		assert.Equal(t, "Start Order now", spec.Blocks[0].Description)
		require.Len(t, spec.Buttons, 1)
		assert.Equal(t, CustomIDOpenOrder, spec.Buttons[0].CustomID)
	})

	t.Run("buttons sort by row with insertion order preserved", func(t *testing.T) {
		tmpl := &Template{
			Block: ContentBlock{Description: "{{btn:Tagged|support|secondary|row0}}"},
			Buttons: []PanelButton{
				{Label: "First", Action: ActionOpenOrder, Row: 1},
				{Label: "Second", Action: ActionOpenSupport, Row: 0},
				{Label: "Third", Action: ActionOpenOrder, Row: 0},
			},
		}

		spec := Render(tmpl)

		require.Len(t, spec.Buttons, 4)
		labels := []string{spec.Buttons[0].Label, spec.Buttons[1].Label, spec.Buttons[2].Label, spec.Buttons[3].Label}
		assert.Equal(t, []string{"Second", "Third", "Tagged", "First"}, labels)
	})

	t.Run("non-actionable buttons are dropped", func(t *testing.T) {
		tmpl := &Template{
			Buttons: []PanelButton{
				{Label: "Broken link", Action: ActionNone},
				{Label: "Docs", Action: ActionOpenURL, URL: "https://example.com"},
			},
		}

		spec := Render(tmpl)

		require.Len(t, spec.Buttons, 1)
		assert.Equal(t, "Docs", spec.Buttons[0].Label)
		assert.Equal(t, "https://example.com", spec.Buttons[0].URL)
		assert.Empty(t, spec.Buttons[0].CustomID)
	})

	t.Run("static panel without buttons is not interactive", func(t *testing.T) {
		tmpl := &Template{
			Block: ContentBlock{Title: "Rules", Description: "Be nice"},
		}

		spec := Render(tmpl)

		assert.Empty(t, spec.Buttons)
		assert.False(t, spec.Interactive)
	})

	t.Run("flagged ticket panel is interactive even without buttons", func(t *testing.T) {
		tmpl := &Template{IsTicketPanel: true}

		spec := Render(tmpl)

		assert.Empty(t, spec.Buttons)
		assert.True(t, spec.Interactive)
	})

	t.Run("extra blocks render in order with own colors", func(t *testing.T) {
		tmpl := &Template{
			Block: ContentBlock{Title: "Main", ColorHex: "2ECC71"},
			ExtraBlocks: []ContentBlock{
				{Title: "FAQ", ColorHex: "ABCDEF"},
				{Title: "Legal", ColorHex: "112233"},
			},
		}

		spec := Render(tmpl)

		require.Len(t, spec.Blocks, 3)
		assert.Equal(t, "FAQ", spec.Blocks[1].Title)
		assert.Equal(t, 0xABCDEF, spec.Blocks[1].Color)
		assert.Equal(t, "Legal", spec.Blocks[2].Title)
		assert.Equal(t, 0x112233, spec.Blocks[2].Color)
	})
}

func TestCloseButtonSpec(t *testing.T) {
	b := CloseButtonSpec()
	assert.Equal(t, CustomIDClose, b.CustomID)
	assert.Equal(t, StyleDanger, b.Style)
	assert.NotEmpty(t, b.Label)
}
