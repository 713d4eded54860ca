package ticket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbridge/internal/shared/errors"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("order")
	require.NoError(t, err)
	assert.Equal(t, KindOrder, kind)

	kind, err = ParseKind("support")
	require.NoError(t, err)
	assert.Equal(t, KindSupport, kind)

	_, err = ParseKind("billing")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewBinding(t *testing.T) {
	tests := []struct {
		name      string
		channelID int64
		openerID  int64
		kind      Kind
		wantErr   bool
	}{
		{name: "valid", channelID: 1, openerID: 2, kind: KindOrder},
		{name: "missing channel", openerID: 2, kind: KindOrder, wantErr: true},
		{name: "missing opener", channelID: 1, kind: KindOrder, wantErr: true},
		{name: "bad kind", channelID: 1, openerID: 2, kind: Kind("vip"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBinding(tt.channelID, "order-0001", tt.openerID, tt.kind)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.channelID, b.ChannelID())
			assert.Equal(t, "order-0001", b.ChannelName())
			assert.Equal(t, tt.openerID, b.OpenerID())
			assert.False(t, b.CreatedAt().IsZero())
		})
	}
}

func TestBindingDigestMessages(t *testing.T) {
	b, err := NewBinding(1, "support-0002", 2, KindSupport)
	require.NoError(t, err)

	_, ok := b.DigestMessageID(555)
	assert.False(t, ok)

	b.SetDigestMessageID(555, 9001)
	b.SetDigestMessageID(555, 9002)
	id, ok := b.DigestMessageID(555)
	require.True(t, ok)
	assert.Equal(t, int64(9002), id)

	copied := b.DigestMessageIDs()
	copied[555] = 1
	id, _ = b.DigestMessageID(555)
	assert.Equal(t, int64(9002), id)
}

func TestBindingDigestMessages_ConcurrentAccess(t *testing.T) {
	b, err := NewBinding(1, "support-0002", 2, KindSupport)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := int64(0); i < 500; i++ {
			b.SetDigestMessageID(i%7, 9000+i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Document()
			b.DigestMessageIDs()
			b.DigestMessageID(3)
		}
	}()
	wg.Wait()

	assert.Len(t, b.DigestMessageIDs(), 7)
}

func TestBindingDocument(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := ReconstructBinding(1, "order-0003", 2, KindOrder, map[int64]int64{555: 9001}, created)

	doc := b.Document()
	assert.Equal(t, int64(1), doc["channelId"])
	assert.Equal(t, "order-0003", doc["channelName"])
	assert.Equal(t, "order", doc["kind"])
	assert.Equal(t, "2025-06-01T12:00:00Z", doc["createdAt"])
	assert.Equal(t, map[string]any{"555": int64(9001)}, doc["digestMessages"])
}
