package template

import "context"

// Repository persists templates keyed by their case-normalized name.
type Repository interface {
	Save(ctx context.Context, tmpl *Template) error
	Delete(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
}
