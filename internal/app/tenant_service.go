package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// TenantService orchestrates tenant lifecycle operations.
type TenantService struct {
	repo      tenant.Repository
	bus       domain.EventBus
	validator domain.TransitionValidator
}

// NewTenantService creates a service with the given adapters.
func NewTenantService(repo tenant.Repository, bus domain.EventBus, validator domain.TransitionValidator) *TenantService {
	return &TenantService{
		repo:      repo,
		bus:       bus,
		validator: validator,
	}
}

// CreateTenantCommand is the input of Create.
type CreateTenantCommand struct {
	Name         string
	Slug         string
	ContactEmail string
	ContactPhone *string
}

// Create persists a new pending tenant and publishes tenant.created.
func (s *TenantService) Create(ctx context.Context, cmd CreateTenantCommand) (*tenant.Tenant, error) {
	slug, err := tenant.NewSlug(cmd.Slug)
	if err != nil {
		return nil, err
	}
	email, err := tenant.NewContactEmail(cmd.ContactEmail)
	if err != nil {
		return nil, err
	}

	// Fast path only; the storage constraint is authoritative.
	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("checking slug: %w", err)
	}
	if exists {
		return nil, &domain.SlugConflictError{Slug: slug.String()}
	}

	t, err := tenant.New(tenant.NewID(), cmd.Name, slug, email, cmd.ContactPhone)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("creating tenant: %w", err)
	}

	if err := s.bus.PublishEntity(ctx, t); err != nil {
		return nil, fmt.Errorf("publishing tenant events: %w", err)
	}

	return t, nil
}

// Get returns a tenant by its identifier.
func (s *TenantService) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	tid, err := tenant.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, tid)
}

// GetBySlug returns a tenant by its slug. The slug is normalized first.
func (s *TenantService) GetBySlug(ctx context.Context, raw string) (*tenant.Tenant, error) {
	slug, err := tenant.NewSlug(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

// ListTenantsQuery selects one page of tenants.
type ListTenantsQuery struct {
	Limit  int
	Offset int
}

// TenantPage is one page of tenants plus the total count.
type TenantPage struct {
	Tenants []*tenant.Tenant
	Total   int
	Limit   int
	Offset  int
}

// List returns a page of tenants, newest first. A limit outside 1..100
// falls back to 20 and a negative offset to 0.
func (s *TenantService) List(ctx context.Context, q ListTenantsQuery) (TenantPage, error) {
	if q.Limit < 1 || q.Limit > maxPageLimit {
		q.Limit = defaultPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	tenants, err := s.repo.FindAll(ctx, q.Limit, q.Offset)
	if err != nil {
		return TenantPage{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return TenantPage{}, err
	}

	return TenantPage{Tenants: tenants, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Transition applies a lifecycle event (activate, suspend, deactivate).
func (s *TenantService) Transition(ctx context.Context, id, event string) (*tenant.Tenant, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := t.Status()
	dst, err := resolveTransition(ctx, s.validator, string(from), event, t.RejectionFor)
	if err != nil {
		return nil, err
	}
	status, err := tenant.ParseStatus(dst)
	if err != nil {
		return nil, err
	}
	t.MoveTo(status)

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("updating tenant: %w", err)
	}

	if err := s.bus.PublishEntity(ctx, t); err != nil {
		return nil, fmt.Errorf("publishing event %q: %w", event, err)
	}

	slog.InfoContext(ctx, "tenant status changed",
		"tenant_id", t.ID().String(),
		"event", event,
		"from", string(from),
		"to", string(t.Status()),
	)
	return t, nil
}

// UpdateTenantCommand is the input of UpdateInfo.
type UpdateTenantCommand struct {
	ID           string
	Name         string
	ContactEmail string
	ContactPhone *string
}

// UpdateInfo replaces a tenant's name and contact details.
func (s *TenantService) UpdateInfo(ctx context.Context, cmd UpdateTenantCommand) (*tenant.Tenant, error) {
	t, err := s.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	email, err := tenant.NewContactEmail(cmd.ContactEmail)
	if err != nil {
		return nil, err
	}
	if err := t.UpdateInfo(cmd.Name, email, cmd.ContactPhone); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("updating tenant: %w", err)
	}
	return t, nil
}

// Delete removes a tenant.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	tid, err := tenant.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, tid)
}
