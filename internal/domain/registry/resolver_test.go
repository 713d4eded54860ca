package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketbridge/internal/domain/ticket"
)

func staffedRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	reg.SetRole(10, RoleAdmin)
	reg.SetNotifyChat(10, 100)
	reg.SetRole(11, RoleManager)
	reg.SetNotifyChat(11, 110)
	reg.SetRole(12, RoleBuilder)
	reg.SetNotifyChat(12, 120)
	reg.SetRole(13, RoleViewer)
	reg.SetNotifyChat(13, 130)
	reg.SetLink(42, 555)
	return reg
}

func TestResolveTargets(t *testing.T) {
	tests := []struct {
		name       string
		kind       ticket.Kind
		openerID   int64
		adminChats []int64
		want       []int64
	}{
		{
			name:     "support ticket skips builders",
			kind:     ticket.KindSupport,
			openerID: 1,
			want:     []int64{100, 110},
		},
		{
			name:     "order ticket includes builders",
			kind:     ticket.KindOrder,
			openerID: 1,
			want:     []int64{100, 110, 120},
		},
		{
			name:     "linked opener is always included",
			kind:     ticket.KindSupport,
			openerID: 42,
			want:     []int64{100, 110, 555},
		},
		{
			name:       "static admin chats union in",
			kind:       ticket.KindSupport,
			openerID:   1,
			adminChats: []int64{900, 100},
			want:       []int64{100, 110, 900},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTargets(tt.kind, tt.openerID, staffedRegistry(t), tt.adminChats)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestResolveTargetsEmptyComposition(t *testing.T) {
	got := ResolveTargets(ticket.KindOrder, 1, NewRegistry(), nil)
	assert.Zero(t, got.Len())
}

func TestResolveTargetsIsOrderIndependent(t *testing.T) {
	forward := NewRegistry()
	forward.SetRole(1, RoleAdmin)
	forward.SetNotifyChat(1, 100)
	forward.SetRole(2, RoleManager)
	forward.SetNotifyChat(2, 200)

	backward := NewRegistry()
	backward.SetRole(2, RoleManager)
	backward.SetNotifyChat(2, 200)
	backward.SetRole(1, RoleAdmin)
	backward.SetNotifyChat(1, 100)

	a := ResolveTargets(ticket.KindOrder, 7, forward, nil)
	b := ResolveTargets(ticket.KindOrder, 7, backward, nil)
	assert.Equal(t, a.Sorted(), b.Sorted())
}
