package usecases

import (
	"context"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type mockBindingRepository struct {
	SaveFunc                func(ctx context.Context, b *ticket.Binding) error
	DeleteFunc              func(ctx context.Context, channelID int64) error
	GetByChannelIDFunc      func(ctx context.Context, channelID int64) (*ticket.Binding, error)
	ListFunc                func(ctx context.Context) ([]*ticket.Binding, error)
	RecordDigestMessageFunc func(ctx context.Context, channelID, chatID, messageID int64) error
}

func (m *mockBindingRepository) Save(ctx context.Context, b *ticket.Binding) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, b)
	}
	return nil
}

func (m *mockBindingRepository) Delete(ctx context.Context, channelID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, channelID)
	}
	return nil
}

func (m *mockBindingRepository) GetByChannelID(ctx context.Context, channelID int64) (*ticket.Binding, error) {
	if m.GetByChannelIDFunc != nil {
		return m.GetByChannelIDFunc(ctx, channelID)
	}
	return nil, errors.NewNotFoundError("no binding")
}

func (m *mockBindingRepository) List(ctx context.Context) ([]*ticket.Binding, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockBindingRepository) RecordDigestMessage(ctx context.Context, channelID, chatID, messageID int64) error {
	if m.RecordDigestMessageFunc != nil {
		return m.RecordDigestMessageFunc(ctx, channelID, chatID, messageID)
	}
	binding, err := m.GetByChannelID(ctx, channelID)
	if err != nil {
		return err
	}
	binding.SetDigestMessageID(chatID, messageID)
	return nil
}

type mockTemplateRepository struct {
	SaveFunc      func(ctx context.Context, tmpl *template.Template) error
	DeleteFunc    func(ctx context.Context, name string) error
	GetByNameFunc func(ctx context.Context, name string) (*template.Template, error)
	ListFunc      func(ctx context.Context) ([]*template.Template, error)
}

func (m *mockTemplateRepository) Save(ctx context.Context, tmpl *template.Template) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tmpl)
	}
	return nil
}

func (m *mockTemplateRepository) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}

func (m *mockTemplateRepository) GetByName(ctx context.Context, name string) (*template.Template, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, errors.NewNotFoundError("no template")
}

func (m *mockTemplateRepository) List(ctx context.Context) ([]*template.Template, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type mockNotificationSender struct {
	SendMessageFunc            func(ctx context.Context, chatID int64, text string) (int64, error)
	EditMessageFunc            func(ctx context.Context, chatID, messageID int64, text string) error
	SendDocumentFunc           func(ctx context.Context, chatID int64, artifact ports.Artifact) error
	SendMessageWithButtonsFunc func(ctx context.Context, chatID int64, text string, rows [][]ports.InlineButton) (int64, error)

	sent    []sentMessage
	edited  []sentMessage
	docs    []sentMessage
	prompts []sentMessage
	nextID  int64
}

func (m *mockNotificationSender) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text})
	m.nextID++
	return m.nextID, nil
}

func (m *mockNotificationSender) EditMessage(ctx context.Context, chatID, messageID int64, text string) error {
	if m.EditMessageFunc != nil {
		return m.EditMessageFunc(ctx, chatID, messageID, text)
	}
	m.edited = append(m.edited, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *mockNotificationSender) SendDocument(ctx context.Context, chatID int64, artifact ports.Artifact) error {
	if m.SendDocumentFunc != nil {
		return m.SendDocumentFunc(ctx, chatID, artifact)
	}
	m.docs = append(m.docs, sentMessage{ChatID: chatID, Text: artifact.Name})
	return nil
}

func (m *mockNotificationSender) SendMessageWithButtons(ctx context.Context, chatID int64, text string, rows [][]ports.InlineButton) (int64, error) {
	if m.SendMessageWithButtonsFunc != nil {
		return m.SendMessageWithButtonsFunc(ctx, chatID, text, rows)
	}
	m.prompts = append(m.prompts, sentMessage{ChatID: chatID, Text: text})
	m.nextID++
	return m.nextID, nil
}

type mockPlatformSender struct {
	CreateChannelFunc       func(ctx context.Context, name string, perms ports.ChannelPermissions) (int64, error)
	DeleteChannelFunc       func(ctx context.Context, channelID int64) error
	SendMessageFunc         func(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error)
	EditMessageFunc         func(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error
	FetchRecentMessagesFunc func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error)

	deletedChannels []int64
	channelMessages []ports.MessageContent
}

func (m *mockPlatformSender) CreateChannel(ctx context.Context, name string, perms ports.ChannelPermissions) (int64, error) {
	if m.CreateChannelFunc != nil {
		return m.CreateChannelFunc(ctx, name, perms)
	}
	return 1000, nil
}

func (m *mockPlatformSender) DeleteChannel(ctx context.Context, channelID int64) error {
	if m.DeleteChannelFunc != nil {
		return m.DeleteChannelFunc(ctx, channelID)
	}
	m.deletedChannels = append(m.deletedChannels, channelID)
	return nil
}

func (m *mockPlatformSender) SendMessage(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, channelID, content)
	}
	m.channelMessages = append(m.channelMessages, content)
	return 1, nil
}

func (m *mockPlatformSender) EditMessage(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error {
	if m.EditMessageFunc != nil {
		return m.EditMessageFunc(ctx, channelID, messageID, content)
	}
	return nil
}

func (m *mockPlatformSender) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
	if m.FetchRecentMessagesFunc != nil {
		return m.FetchRecentMessagesFunc(ctx, channelID, limit)
	}
	return nil, nil
}

type mockArchiveCollector struct {
	CollectFunc func(ctx context.Context, channelID int64) ([]ports.Artifact, error)
}

func (m *mockArchiveCollector) Collect(ctx context.Context, channelID int64) ([]ports.Artifact, error) {
	if m.CollectFunc != nil {
		return m.CollectFunc(ctx, channelID)
	}
	return nil, nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
