// Package ticket holds the ticket binding entity: the link between a live
// ticket channel on the primary platform and its notification state.
package ticket

import (
	"strconv"
	"sync"
	"time"

	"ticketbridge/internal/shared/errors"
)

// Kind is the ticket category a panel button opens.
type Kind string

const (
	KindOrder   Kind = "order"
	KindSupport Kind = "support"
)

// IsValid reports whether the kind is one of the supported categories.
func (k Kind) IsValid() bool {
	return k == KindOrder || k == KindSupport
}

// ParseKind validates a raw kind string.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if !k.IsValid() {
		return "", errors.NewValidationError("invalid ticket kind: " + raw)
	}
	return k, nil
}

// Binding ties a ticket channel to its opener and to the live digest
// messages mirrored to notification chats. One binding exists per open
// ticket; removal of the binding is what closes the ticket.
type Binding struct {
	channelID   int64
	channelName string
	openerID    int64
	kind        Kind

	// digestMessageIDs maps recipient chat id to the id of the live digest
	// message in that chat. At most one entry per chat. The digest scheduler
	// and the interaction handlers touch bindings from different goroutines,
	// so the map is guarded.
	mu               sync.RWMutex
	digestMessageIDs map[int64]int64

	createdAt time.Time
}

// NewBinding creates a binding for a freshly created ticket channel.
func NewBinding(channelID int64, channelName string, openerID int64, kind Kind) (*Binding, error) {
	if channelID == 0 {
		return nil, errors.NewValidationError("channel id is required")
	}
	if openerID == 0 {
		return nil, errors.NewValidationError("opener id is required")
	}
	if !kind.IsValid() {
		return nil, errors.NewValidationError("invalid ticket kind: " + string(kind))
	}
	return &Binding{
		channelID:        channelID,
		channelName:      channelName,
		openerID:         openerID,
		kind:             kind,
		digestMessageIDs: make(map[int64]int64),
		createdAt:        time.Now(),
	}, nil
}

// ReconstructBinding rebuilds a binding from persisted state without
// validation side effects.
func ReconstructBinding(
	channelID int64,
	channelName string,
	openerID int64,
	kind Kind,
	digestMessageIDs map[int64]int64,
	createdAt time.Time,
) *Binding {
	if digestMessageIDs == nil {
		digestMessageIDs = make(map[int64]int64)
	}
	return &Binding{
		channelID:        channelID,
		channelName:      channelName,
		openerID:         openerID,
		kind:             kind,
		digestMessageIDs: digestMessageIDs,
		createdAt:        createdAt,
	}
}

func (b *Binding) ChannelID() int64     { return b.channelID }
func (b *Binding) ChannelName() string  { return b.channelName }
func (b *Binding) OpenerID() int64      { return b.openerID }
func (b *Binding) Kind() Kind           { return b.kind }
func (b *Binding) CreatedAt() time.Time { return b.createdAt }

// DigestMessageID returns the live digest message id for a chat, if any.
func (b *Binding) DigestMessageID(chatID int64) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	id, ok := b.digestMessageIDs[chatID]
	return id, ok
}

// SetDigestMessageID records the live digest message for a chat, replacing
// any previous one.
func (b *Binding) SetDigestMessageID(chatID, messageID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.digestMessageIDs[chatID] = messageID
}

// DigestMessageIDs returns a copy of the chat-to-message map.
func (b *Binding) DigestMessageIDs() map[int64]int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[int64]int64, len(b.digestMessageIDs))
	for chat, msg := range b.digestMessageIDs {
		out[chat] = msg
	}
	return out
}

// Document converts the binding to its persisted document shape.
func (b *Binding) Document() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	digests := make(map[string]any, len(b.digestMessageIDs))
	for chat, msg := range b.digestMessageIDs {
		digests[strconv.FormatInt(chat, 10)] = msg
	}
	return map[string]any{
		"channelId":      b.channelID,
		"channelName":    b.channelName,
		"openerId":       b.openerID,
		"kind":           string(b.kind),
		"digestMessages": digests,
		"createdAt":      b.createdAt.UTC().Format(time.RFC3339),
	}
}
