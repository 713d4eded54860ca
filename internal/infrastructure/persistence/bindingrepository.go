package persistence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

// BindingRepository keeps ticket bindings in memory, keyed by channel id,
// and mirrors every mutation to the binding store file.
type BindingRepository struct {
	store    *JSONStore
	logger   logger.Interface
	mu       sync.RWMutex
	bindings map[int64]*ticket.Binding
}

func NewBindingRepository(store *JSONStore, log logger.Interface) (*BindingRepository, error) {
	repo := &BindingRepository{
		store:    store,
		logger:   log,
		bindings: make(map[int64]*ticket.Binding),
	}

	var doc map[string]map[string]any
	if err := store.Read(&doc); err != nil {
		return nil, err
	}
	for key, raw := range doc {
		binding, err := bindingFromDocument(raw)
		if err != nil {
			log.Warnw("skipping unreadable binding record", "key", key, "error", err)
			continue
		}
		repo.bindings[binding.ChannelID()] = binding
	}
	return repo, nil
}

var _ ticket.BindingRepository = (*BindingRepository)(nil)

func (r *BindingRepository) Save(ctx context.Context, binding *ticket.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[binding.ChannelID()] = binding
	return r.persistLocked()
}

func (r *BindingRepository) Delete(ctx context.Context, channelID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bindings[channelID]; !ok {
		return errors.NewNotFoundError(fmt.Sprintf("no binding for channel %d", channelID))
	}
	delete(r.bindings, channelID)
	return r.persistLocked()
}

func (r *BindingRepository) GetByChannelID(ctx context.Context, channelID int64) (*ticket.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, ok := r.bindings[channelID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no binding for channel %d", channelID))
	}
	return binding, nil
}

func (r *BindingRepository) List(ctx context.Context) ([]*ticket.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*ticket.Binding, 0, len(r.bindings))
	for _, binding := range r.bindings {
		all = append(all, binding)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ChannelID() < all[j].ChannelID() })
	return all, nil
}

func (r *BindingRepository) RecordDigestMessage(ctx context.Context, channelID, chatID, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, ok := r.bindings[channelID]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("no binding for channel %d", channelID))
	}
	binding.SetDigestMessageID(chatID, messageID)
	return r.persistLocked()
}

func (r *BindingRepository) persistLocked() error {
	doc := make(map[string]any, len(r.bindings))
	for channelID, binding := range r.bindings {
		doc[strconv.FormatInt(channelID, 10)] = binding.Document()
	}
	if err := r.store.Write(doc); err != nil {
		return errors.NewInternalError("failed to persist bindings", err.Error())
	}
	return nil
}

func bindingFromDocument(doc map[string]any) (*ticket.Binding, error) {
	channelID := docInt64(doc["channelId"])
	if channelID == 0 {
		return nil, errors.NewValidationError("binding record has no channel id")
	}
	kind, err := ticket.ParseKind(docString(doc["kind"]))
	if err != nil {
		return nil, err
	}

	digests := make(map[int64]int64)
	if raw, ok := doc["digestMessages"].(map[string]any); ok {
		for chatKey, messageID := range raw {
			chatID, err := strconv.ParseInt(chatKey, 10, 64)
			if err != nil {
				continue
			}
			if id := docInt64(messageID); id != 0 {
				digests[chatID] = id
			}
		}
	}

	createdAt := time.Now()
	if ts, err := time.Parse(time.RFC3339, docString(doc["createdAt"])); err == nil {
		createdAt = ts
	}

	return ticket.ReconstructBinding(
		channelID,
		docString(doc["channelName"]),
		docInt64(doc["openerId"]),
		kind,
		digests,
		createdAt,
	), nil
}
