package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbridge/internal/application/ports"
	ticketUsecases "ticketbridge/internal/application/ticket/usecases"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type mockBindings struct {
	ListFunc func(ctx context.Context) ([]*ticket.Binding, error)
}

func (m *mockBindings) Save(ctx context.Context, b *ticket.Binding) error   { return nil }
func (m *mockBindings) Delete(ctx context.Context, channelID int64) error   { return nil }
func (m *mockBindings) GetByChannelID(ctx context.Context, channelID int64) (*ticket.Binding, error) {
	return nil, errors.NewNotFoundError("no binding")
}
func (m *mockBindings) List(ctx context.Context) ([]*ticket.Binding, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockBindings) RecordDigestMessage(ctx context.Context, channelID, chatID, messageID int64) error {
	return nil
}

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

type mockRefresh struct {
	calls []int64
	err   error
}

func (m *mockRefresh) Execute(ctx context.Context, cmd ticketUsecases.RefreshDigestCommand) (*ticketUsecases.RefreshDigestResult, error) {
	m.calls = append(m.calls, cmd.ChannelID)
	if m.err != nil {
		return nil, m.err
	}
	return &ticketUsecases.RefreshDigestResult{ChannelID: cmd.ChannelID, Refreshed: true}, nil
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

func binding(t *testing.T, channelID int64) *ticket.Binding {
	t.Helper()
	return ticket.ReconstructBinding(channelID, "order-alice", 42, ticket.KindOrder, nil, time.Now())
}

func TestDigestScheduler_Sweep(t *testing.T) {
	bindings := &mockBindings{
		ListFunc: func(ctx context.Context) ([]*ticket.Binding, error) {
			return []*ticket.Binding{binding(t, 2000), binding(t, 3000)}, nil
		},
	}
	newest := map[int64]int64{2000: 10, 3000: 20}
	platform := &mockPlatform{
		FetchRecentMessagesFunc: func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
			assert.Equal(t, 1, limit)
			return []ports.ChannelMessage{{ID: newest[channelID]}}, nil
		},
	}
	refresh := &mockRefresh{}

	s := NewDigestScheduler(bindings, platform, refresh, 60, nopLogger{})
	ctx := context.Background()

	s.sweep(ctx)
	assert.Equal(t, []int64{2000, 3000}, refresh.calls)

	// No new activity, nothing to refresh.
	s.sweep(ctx)
	assert.Equal(t, []int64{2000, 3000}, refresh.calls)

	// A new message on one channel refreshes only that channel.
	newest[3000] = 21
	s.sweep(ctx)
	assert.Equal(t, []int64{2000, 3000, 3000}, refresh.calls)
}

func TestDigestScheduler_SweepSkipsEmptyChannels(t *testing.T) {
	bindings := &mockBindings{
		ListFunc: func(ctx context.Context) ([]*ticket.Binding, error) {
			return []*ticket.Binding{binding(t, 2000)}, nil
		},
	}
	refresh := &mockRefresh{}

	s := NewDigestScheduler(bindings, &mockPlatform{}, refresh, 60, nopLogger{})
	s.sweep(context.Background())
	assert.Empty(t, refresh.calls)
}

func TestDigestScheduler_SweepRetriesFailedRefresh(t *testing.T) {
	bindings := &mockBindings{
		ListFunc: func(ctx context.Context) ([]*ticket.Binding, error) {
			return []*ticket.Binding{binding(t, 2000)}, nil
		},
	}
	platform := &mockPlatform{
		FetchRecentMessagesFunc: func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
			return []ports.ChannelMessage{{ID: 10}}, nil
		},
	}
	refresh := &mockRefresh{err: errors.NewExternalError("send failed", nil)}

	s := NewDigestScheduler(bindings, platform, refresh, 60, nopLogger{})
	ctx := context.Background()

	// The failed channel stays dirty and is retried next sweep.
	s.sweep(ctx)
	s.sweep(ctx)
	assert.Equal(t, []int64{2000, 2000}, refresh.calls)
}

func TestDigestScheduler_PrunesClosedTickets(t *testing.T) {
	open := []*ticket.Binding{binding(t, 2000)}
	bindings := &mockBindings{
		ListFunc: func(ctx context.Context) ([]*ticket.Binding, error) {
			return open, nil
		},
	}
	platform := &mockPlatform{
		FetchRecentMessagesFunc: func(ctx context.Context, channelID int64, limit int) ([]ports.ChannelMessage, error) {
			return []ports.ChannelMessage{{ID: 10}}, nil
		},
	}
	refresh := &mockRefresh{}

	s := NewDigestScheduler(bindings, platform, refresh, 60, nopLogger{})
	ctx := context.Background()
	s.sweep(ctx)
	require.Contains(t, s.lastSeen, int64(2000))

	open = nil
	s.sweep(ctx)
	assert.NotContains(t, s.lastSeen, int64(2000))
}

func TestDigestScheduler_DefaultInterval(t *testing.T) {
	s := NewDigestScheduler(&mockBindings{}, &mockPlatform{}, &mockRefresh{}, 0, nopLogger{})
	assert.Equal(t, defaultRefreshInterval, s.interval)
}
