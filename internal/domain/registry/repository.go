package registry

import "context"

// Repository persists registry state as two whole documents, one for role
// assignments and one for user links.
type Repository interface {
	Load(ctx context.Context, reg *Registry) error
	SaveRoles(ctx context.Context, reg *Registry) error
	SaveLinks(ctx context.Context, reg *Registry) error
}
