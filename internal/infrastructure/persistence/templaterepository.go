package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

// TemplateRepository keeps all templates in memory and mirrors every
// mutation to the template store file.
type TemplateRepository struct {
	store     *JSONStore
	logger    logger.Interface
	mu        sync.RWMutex
	templates map[string]*template.Template
}

func NewTemplateRepository(store *JSONStore, log logger.Interface) (*TemplateRepository, error) {
	repo := &TemplateRepository{
		store:     store,
		logger:    log,
		templates: make(map[string]*template.Template),
	}

	var doc map[string]map[string]any
	if err := store.Read(&doc); err != nil {
		return nil, err
	}
	for name, raw := range doc {
		tmpl, err := template.Normalize(raw)
		if err != nil {
			log.Warnw("skipping unreadable template record", "name", name, "error", err)
			continue
		}
		repo.templates[tmpl.Name] = tmpl
	}
	return repo, nil
}

var _ template.Repository = (*TemplateRepository)(nil)

func (r *TemplateRepository) Save(ctx context.Context, tmpl *template.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[tmpl.Name] = tmpl
	return r.persistLocked()
}

func (r *TemplateRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.templates[key]; !ok {
		return errors.NewNotFoundError(fmt.Sprintf("template %q not found", key))
	}
	delete(r.templates, key)
	return r.persistLocked()
}

func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	tmpl, ok := r.templates[key]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("template %q not found", key))
	}
	return tmpl, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*template.Template, 0, len(r.templates))
	for _, tmpl := range r.templates {
		all = append(all, tmpl)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *TemplateRepository) persistLocked() error {
	doc := make(map[string]any, len(r.templates))
	for name, tmpl := range r.templates {
		doc[name] = tmpl.Document()
	}
	if err := r.store.Write(doc); err != nil {
		return errors.NewInternalError("failed to persist templates", err.Error())
	}
	return nil
}
