package ticket

import "context"

// BindingRepository persists ticket bindings keyed by channel id. GetByChannelID
// returns a not-found error when no binding exists for the channel.
type BindingRepository interface {
	Save(ctx context.Context, binding *Binding) error
	Delete(ctx context.Context, channelID int64) error
	GetByChannelID(ctx context.Context, channelID int64) (*Binding, error)
	List(ctx context.Context) ([]*Binding, error)

	// RecordDigestMessage stores the live digest message id for a chat on an
	// existing binding and persists the change. Update-only: a not-found
	// error is returned when the binding is gone, so a closed ticket can
	// never be written back.
	RecordDigestMessage(ctx context.Context, channelID, chatID, messageID int64) error
}
