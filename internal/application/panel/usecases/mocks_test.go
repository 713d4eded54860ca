package usecases

import (
	"context"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

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

type mockPlatformSender struct {
	SendMessageFunc func(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error)
	EditMessageFunc func(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error
}

func (m *mockPlatformSender) CreateChannel(ctx context.Context, name string, perms ports.ChannelPermissions) (int64, error) {
	return 0, errors.NewInternalError("not implemented")
}

func (m *mockPlatformSender) DeleteChannel(ctx context.Context, channelID int64) error {
	return errors.NewInternalError("not implemented")
}

func (m *mockPlatformSender) SendMessage(ctx context.Context, channelID int64, content ports.MessageContent) (int64, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, channelID, content)
	}
	return 1, nil
}

func (m *mockPlatformSender) EditMessage(ctx context.Context, channelID, messageID int64, content ports.MessageContent) error {
	if m.EditMessageFunc != nil {
		return m.EditMessageFunc(ctx, channelID, messageID, content)
	}
	return nil
}

func (m *mockPlatformSender) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
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
