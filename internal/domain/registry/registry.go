// Package registry tracks who holds which role and where each user wants
// to receive notification traffic.
package registry

import (
	"strconv"
	"sync"

	"ticketbridge/internal/shared/errors"
)

// Role is a coarse permission tier. Roles only influence notification
// fan-out; they carry no platform permissions of their own.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleBuilder Role = "builder"
	RoleViewer  Role = "viewer"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleBuilder, RoleViewer:
		return Role(raw), nil
	default:
		return "", errors.NewValidationError("invalid role: " + raw)
	}
}

// Registry is the in-memory role and link state. It is safe for concurrent
// readers and writers; persistence is handled by a store that snapshots it
// through the Document methods.
type Registry struct {
	mu sync.RWMutex

	// roles and notifyChats describe role holders: what tier a user has and
	// which chat receives that user's role traffic.
	roles       map[int64]Role
	notifyChats map[int64]int64

	// links are direct opener-to-chat bindings, independent of roles.
	links map[int64]int64
}

func NewRegistry() *Registry {
	return &Registry{
		roles:       make(map[int64]Role),
		notifyChats: make(map[int64]int64),
		links:       make(map[int64]int64),
	}
}

// SetRole assigns a role tier to a user. Assigning viewer removes any
// special tier but keeps the user's notify chat.
func (r *Registry) SetRole(userID int64, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = role
}

// Role returns the user's role tier, defaulting to viewer.
func (r *Registry) Role(userID int64) Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if role, ok := r.roles[userID]; ok {
		return role
	}
	return RoleViewer
}

// SetNotifyChat registers the chat where a role holder receives traffic.
func (r *Registry) SetNotifyChat(userID, chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifyChats[userID] = chatID
}

// SetLink binds a user directly to a notification chat.
func (r *Registry) SetLink(userID, chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[userID] = chatID
}

// RemoveLink drops a user's direct chat binding.
func (r *Registry) RemoveLink(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, userID)
}

// LinkedChat returns the user's directly linked chat, if any.
func (r *Registry) LinkedChat(userID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chat, ok := r.links[userID]
	return chat, ok
}

// ChatsForRoles returns the notify chats of every user holding one of the
// given roles. Users without a registered chat contribute nothing.
func (r *Registry) ChatsForRoles(roles ...Role) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		wanted[role] = struct{}{}
	}

	var chats []int64
	for userID, role := range r.roles {
		if _, ok := wanted[role]; !ok {
			continue
		}
		if chat, ok := r.notifyChats[userID]; ok && chat != 0 {
			chats = append(chats, chat)
		}
	}
	return chats
}

// RolesDocument snapshots role assignments into their persisted shape.
func (r *Registry) RolesDocument() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := make(map[string]any, len(r.roles))
	for userID, role := range r.roles {
		record := map[string]any{"role": string(role)}
		if chat, ok := r.notifyChats[userID]; ok {
			record["notifyChatId"] = chat
		}
		doc[strconv.FormatInt(userID, 10)] = record
	}
	return doc
}

// LinksDocument snapshots user links into their persisted shape.
func (r *Registry) LinksDocument() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := make(map[string]any, len(r.links))
	for userID, chat := range r.links {
		doc[strconv.FormatInt(userID, 10)] = chat
	}
	return doc
}

// LoadRolesDocument replaces role state from a persisted document.
// Malformed entries are skipped.
func (r *Registry) LoadRolesDocument(doc map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roles = make(map[int64]Role, len(doc))
	r.notifyChats = make(map[int64]int64, len(doc))
	for key, raw := range doc {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		record, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		role, err := ParseRole(docString(record["role"]))
		if err != nil {
			continue
		}
		r.roles[userID] = role
		if chat := docInt64(record["notifyChatId"]); chat != 0 {
			r.notifyChats[userID] = chat
		}
	}
}

// LoadLinksDocument replaces link state from a persisted document.
// Malformed entries are skipped.
func (r *Registry) LoadLinksDocument(doc map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.links = make(map[int64]int64, len(doc))
	for key, raw := range doc {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if chat := docInt64(raw); chat != 0 {
			r.links[userID] = chat
		}
	}
}

func docString(v any) string {
	s, _ := v.(string)
	return s
}

func docInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
