package tenant

import "context"

// Repository defines the persistence contract for tenants. Lookups return a
// *domain.NotFoundError when nothing matches.
type Repository interface {
	Save(ctx context.Context, t *Tenant) error
	FindByID(ctx context.Context, id ID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug Slug) (*Tenant, error)
	SlugExists(ctx context.Context, slug Slug) (bool, error)
	FindAll(ctx context.Context, limit, offset int) ([]*Tenant, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id ID) error
}
