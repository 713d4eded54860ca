package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbridge/internal/shared/errors"
)

func panelDocument() map[string]any {
	return map[string]any{
		"name":        "Main Panel",
		"channelId":   int64(123456789),
		"title":       "Orders",
		"description": "Describe your job",
		"colorHex":    "2ecc71",
		"panelButtons": []any{
			map[string]any{
				"label":  "Order",
				"style":  "success",
				"action": "openOrderTicket",
				"row":    1,
			},
		},
		"orderReply": "Thanks, we got your order.",
	}
}

func TestNormalize(t *testing.T) {
	t.Run("nil document is rejected", func(t *testing.T) {
		_, err := Normalize(nil)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("canonical fields", func(t *testing.T) {
		tmpl, err := Normalize(panelDocument())
		require.NoError(t, err)

		assert.Equal(t, "main panel", tmpl.Name)
		assert.Equal(t, int64(123456789), tmpl.ChannelID)
		assert.Equal(t, "2ECC71", tmpl.Block.ColorHex)
		assert.Equal(t, ImageTop, tmpl.Block.ImagePosition)
		require.Len(t, tmpl.Buttons, 1)
		assert.Equal(t, ActionOpenOrder, tmpl.Buttons[0].Action)
		assert.True(t, tmpl.IsTicketPanel)
		assert.True(t, tmpl.HasActionableButtons)
	})

	t.Run("invalid color falls back to default", func(t *testing.T) {
		doc := panelDocument()
		doc["colorHex"] = "#zzz"
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		assert.Equal(t, DefaultColorHex, tmpl.Block.ColorHex)
	})

	t.Run("gradient requires both hexes", func(t *testing.T) {
		doc := panelDocument()
		doc["gradientEnabled"] = true
		doc["startColorHex"] = "ff0000"
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		assert.False(t, tmpl.UseGradient)

		doc["endColorHex"] = "0000ff"
		tmpl, err = Normalize(doc)
		require.NoError(t, err)
		assert.True(t, tmpl.UseGradient)
		assert.Equal(t, "FF0000", tmpl.StartColorHex)
		assert.Equal(t, "0000FF", tmpl.EndColorHex)
	})

	t.Run("missing name gets a stable placeholder", func(t *testing.T) {
		doc := panelDocument()
		doc["name"] = "  "
		first, err := Normalize(doc)
		require.NoError(t, err)
		second, err := Normalize(doc)
		require.NoError(t, err)

		assert.NotEmpty(t, first.Name)
		assert.Equal(t, first.Name, second.Name)
		assert.Contains(t, first.Name, "unnamed-")
	})

	t.Run("button rows are clamped", func(t *testing.T) {
		doc := panelDocument()
		doc["panelButtons"] = []any{
			map[string]any{"label": "A", "action": "openOrderTicket", "row": 17},
			map[string]any{"label": "B", "action": "openSupportTicket", "row": -2},
		}
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		require.Len(t, tmpl.Buttons, 2)
		assert.Equal(t, 4, tmpl.Buttons[0].Row)
		assert.Equal(t, 0, tmpl.Buttons[1].Row)
	})

	t.Run("ticket panel flag sticks without buttons", func(t *testing.T) {
		doc := panelDocument()
		delete(doc, "panelButtons")
		doc["isTicketPanel"] = true
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		assert.True(t, tmpl.IsTicketPanel)
		assert.False(t, tmpl.HasActionableButtons)
	})

	t.Run("tag buttons count as actionable", func(t *testing.T) {
		doc := panelDocument()
		delete(doc, "panelButtons")
		doc["description"] = "Press {{btn:Order here|order}} to start"
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		assert.True(t, tmpl.HasActionableButtons)
		assert.True(t, tmpl.IsTicketPanel)
	})

	t.Run("string channel id is parsed", func(t *testing.T) {
		doc := panelDocument()
		doc["channelId"] = "987654321"
		tmpl, err := Normalize(doc)
		require.NoError(t, err)
		assert.Equal(t, int64(987654321), tmpl.ChannelID)
	})
}

func TestNormalizeLegacySplitMigration(t *testing.T) {
	doc := panelDocument()
	doc["splitEnabled"] = true
	doc["splitTitle"] = "Second section"
	doc["splitDescription"] = "More details"
	doc["splitColorHex"] = "112233"

	tmpl, err := Normalize(doc)
	require.NoError(t, err)

	require.Len(t, tmpl.ExtraBlocks, 1)
	assert.Equal(t, "Second section", tmpl.ExtraBlocks[0].Title)
	assert.Equal(t, "More details", tmpl.ExtraBlocks[0].Description)
	assert.Equal(t, "112233", tmpl.ExtraBlocks[0].ColorHex)

	// The legacy keys never survive into the canonical document.
	round := tmpl.Document()
	assert.NotContains(t, round, "splitEnabled")
	assert.NotContains(t, round, "splitTitle")
	assert.NotContains(t, round, "splitDescription")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	doc := panelDocument()
	doc["gradientEnabled"] = true
	doc["startColorHex"] = "ff0000"
	doc["endColorHex"] = "0000ff"
	doc["extraBlocks"] = []any{
		map[string]any{"title": "FAQ", "description": "Read first", "colorHex": "abcdef"},
	}
	doc["splitEnabled"] = true
	doc["splitTitle"] = "Legacy tail"

	first, err := Normalize(doc)
	require.NoError(t, err)
	second, err := Normalize(first.Document())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
