package persistence

import (
	"context"

	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/shared/errors"
)

// RegistryRepository persists role assignments and user links as two
// separate store files.
type RegistryRepository struct {
	roles *JSONStore
	links *JSONStore
}

func NewRegistryRepository(roles, links *JSONStore) *RegistryRepository {
	return &RegistryRepository{roles: roles, links: links}
}

var _ registry.Repository = (*RegistryRepository)(nil)

func (r *RegistryRepository) Load(ctx context.Context, reg *registry.Registry) error {
	var rolesDoc map[string]any
	if err := r.roles.Read(&rolesDoc); err != nil {
		return errors.NewInternalError("failed to load role assignments", err.Error())
	}
	var linksDoc map[string]any
	if err := r.links.Read(&linksDoc); err != nil {
		return errors.NewInternalError("failed to load user links", err.Error())
	}

	reg.LoadRolesDocument(rolesDoc)
	reg.LoadLinksDocument(linksDoc)
	return nil
}

func (r *RegistryRepository) SaveRoles(ctx context.Context, reg *registry.Registry) error {
	if err := r.roles.Write(reg.RolesDocument()); err != nil {
		return errors.NewInternalError("failed to persist role assignments", err.Error())
	}
	return nil
}

func (r *RegistryRepository) SaveLinks(ctx context.Context, reg *registry.Registry) error {
	if err := r.links.Write(reg.LinksDocument()); err != nil {
		return errors.NewInternalError("failed to persist user links", err.Error())
	}
	return nil
}
