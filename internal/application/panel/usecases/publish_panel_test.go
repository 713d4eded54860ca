package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
)

func storedPanel() *template.Template {
	return &template.Template{
		Name:      "main",
		ChannelID: 123,
		Block:     template.ContentBlock{Title: "Orders", ColorHex: "2ECC71"},
		Buttons: []template.PanelButton{
			{Label: "Order", Action: template.ActionOpenOrder, Style: template.StyleSuccess},
		},
		IsTicketPanel:        true,
		HasActionableButtons: true,
	}
}

func TestPublishPanelUseCase_Execute_SendsAndRecordsMessageID(t *testing.T) {
	tmpl := storedPanel()
	var savedLast int64
	repo := &mockTemplateRepository{
		GetByNameFunc: func(ctx context.Context, name string) (*template.Template, error) {
			return tmpl, nil
		},
		SaveFunc: func(ctx context.Context, saved *template.Template) error {
			savedLast = saved.LastMessageID
			return nil
		},
	}
	platform := &mockPlatformSender{
		SendMessageFunc: func(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
			assert.Equal(t, int64(123), channelID)
			require.NotNil(t, content.Panel)
			require.Len(t, content.Panel.Buttons, 1)
			assert.Equal(t, template.CustomIDOpenOrder, content.Panel.Buttons[0].CustomID)
			return 9001, nil
		},
	}

	uc := NewPublishPanelUseCase(repo, platform, &mockLogger{})
	result, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "main"})
	require.NoError(t, err)

	assert.Equal(t, int64(9001), result.MessageID)
	assert.False(t, result.Edited)
	assert.Equal(t, int64(9001), savedLast)
}

func TestPublishPanelUseCase_Execute_EditInPlace(t *testing.T) {
	tmpl := storedPanel()
	tmpl.LastMessageID = 9001

	repo := &mockTemplateRepository{
		GetByNameFunc: func(ctx context.Context, name string) (*template.Template, error) {
			return tmpl, nil
		},
	}
	edited := false
	platform := &mockPlatformSender{
		EditMessageFunc: func(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error {
			edited = true
			assert.Equal(t, int64(9001), messageID)
			return nil
		},
	}

	uc := NewPublishPanelUseCase(repo, platform, &mockLogger{})
	result, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "main", EditInPlace: true})
	require.NoError(t, err)
	assert.True(t, edited)
	assert.True(t, result.Edited)
	assert.Equal(t, int64(9001), result.MessageID)
}

func TestPublishPanelUseCase_Execute_ChannelOverride(t *testing.T) {
	repo := &mockTemplateRepository{
		GetByNameFunc: func(ctx context.Context, name string) (*template.Template, error) {
			return storedPanel(), nil
		},
	}
	var sentTo int64
	platform := &mockPlatformSender{
		SendMessageFunc: func(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
			sentTo = channelID
			return 1, nil
		},
	}

	uc := NewPublishPanelUseCase(repo, platform, &mockLogger{})
	_, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "main", ChannelID: 456})
	require.NoError(t, err)
	assert.Equal(t, int64(456), sentTo)
}

func TestPublishPanelUseCase_Execute_Failures(t *testing.T) {
	t.Run("unknown template", func(t *testing.T) {
		uc := NewPublishPanelUseCase(&mockTemplateRepository{}, &mockPlatformSender{}, &mockLogger{})
		_, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "ghost"})
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("no target channel", func(t *testing.T) {
		repo := &mockTemplateRepository{
			GetByNameFunc: func(ctx context.Context, name string) (*template.Template, error) {
				return &template.Template{Name: "floating"}, nil
			},
		}
		uc := NewPublishPanelUseCase(repo, &mockPlatformSender{}, &mockLogger{})
		_, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "floating"})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("send failure is external", func(t *testing.T) {
		repo := &mockTemplateRepository{
			GetByNameFunc: func(ctx context.Context, name string) (*template.Template, error) {
				return storedPanel(), nil
			},
		}
		platform := &mockPlatformSender{
			SendMessageFunc: func(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
				return 0, errors.NewExternalError("rate limited", nil)
			},
		}
		uc := NewPublishPanelUseCase(repo, platform, &mockLogger{})
		_, err := uc.Execute(context.Background(), PublishPanelCommand{Name: "main"})
		require.Error(t, err)
		assert.True(t, errors.IsExternalError(err))
	})
}
