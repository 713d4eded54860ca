package archive

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type mockPlatform struct {
	FetchRecentMessagesFunc func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error)
}

func (m *mockPlatform) CreateChannel(ctx context.Context, name string, perms ports.ChannelPermissions) (int64, error) {
	return 0, nil
}
func (m *mockPlatform) DeleteChannel(ctx context.Context, channelID int64) error { return nil }
func (m *mockPlatform) SendMessage(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
	return 0, nil
}
func (m *mockPlatform) EditMessage(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error {
	return nil
}
func (m *mockPlatform) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
	if m.FetchRecentMessagesFunc != nil {
		return m.FetchRecentMessagesFunc(ctx, channelID, limit)
	}
	return nil, nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (n nopLogger) With(args ...any) logger.Interface             { return n }
func (n nopLogger) Named(name string) logger.Interface            { return n }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func TestTranscriptCollector_Collect(t *testing.T) {
	platform := &mockPlatform{
		FetchRecentMessagesFunc: func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
			assert.Equal(t, transcriptFetchLimit, limit)
			return []ports.ChannelMessage{
				{ID: 1, AuthorID: 42, AuthorName: "alice", Content: "hello"},
				{ID: 2, AuthorID: 9, AuthorName: "bridge", Content: "welcome", Automated: true},
				{ID: 3, AuthorID: 42, AuthorName: "alice", Attachments: []string{"receipt.png"}},
			}, nil
		},
	}

	collector := NewTranscriptCollector(platform, nopLogger{})
	artifacts, err := collector.Collect(context.Background(), 3000)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	text := artifacts[0]
	assert.Equal(t, "transcript-3000.txt", text.Name)
	assert.Equal(t, "text/plain", text.ContentType)
	assert.Contains(t, string(text.Data), "alice: hello")
	assert.Contains(t, string(text.Data), "bridge [bot]: welcome")
	assert.Contains(t, string(text.Data), "[attachment: receipt.png]")

	structured := artifacts[1]
	assert.Equal(t, "transcript-3000.json", structured.Name)
	assert.Equal(t, "application/json", structured.ContentType)

	var doc struct {
		ChannelID int64 `json:"channelId"`
		Messages  []struct {
			MessageID int64  `json:"messageId"`
			Content   string `json:"content"`
			Automated bool   `json:"automated"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(structured.Data, &doc))
	assert.Equal(t, int64(3000), doc.ChannelID)
	require.Len(t, doc.Messages, 3)
	assert.True(t, doc.Messages[1].Automated)
}

func TestTranscriptCollector_EmptyChannel(t *testing.T) {
	collector := NewTranscriptCollector(&mockPlatform{}, nopLogger{})
	artifacts, err := collector.Collect(context.Background(), 3000)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Contains(t, string(artifacts[0].Data), "(0 messages)")
}

func TestTranscriptCollector_FetchFailure(t *testing.T) {
	platform := &mockPlatform{
		FetchRecentMessagesFunc: func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
			return nil, errors.NewExternalError("api down", nil)
		},
	}

	collector := NewTranscriptCollector(platform, nopLogger{})
	_, err := collector.Collect(context.Background(), 3000)
	require.Error(t, err)
	assert.True(t, errors.IsExternalError(err))
}
