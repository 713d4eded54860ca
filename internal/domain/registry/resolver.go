package registry

import (
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/utils/setutil"
)

// ResolveTargets computes the deduplicated set of notification chats for a
// ticket event. It is a pure function of its inputs: the opener's direct
// link, the static administrator chats, chats of admin and manager role
// holders, and builder chats for order tickets. An empty result is valid;
// the caller decides how to report it.
func ResolveTargets(kind ticket.Kind, openerID int64, reg *Registry, adminChats []int64) *setutil.Int64Set {
	targets := setutil.NewInt64Set()

	if chat, ok := reg.LinkedChat(openerID); ok {
		targets.Add(chat)
	}
	targets.AddAll(adminChats)
	targets.AddAll(reg.ChatsForRoles(RoleAdmin, RoleManager))
	if kind == ticket.KindOrder {
		targets.AddAll(reg.ChatsForRoles(RoleBuilder))
	}

	return targets
}
