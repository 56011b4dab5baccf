package app_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

// --- Mocks ---

type mockTenantRepo struct {
	mu      sync.Mutex
	tenants map[tenant.ID]*tenant.Tenant
	saveErr error
}

func newMockTenantRepo() *mockTenantRepo {
	return &mockTenantRepo{tenants: make(map[tenant.ID]*tenant.Tenant)}
}

func (m *mockTenantRepo) Save(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tenants[t.ID()] = t
	return nil
}

func (m *mockTenantRepo) FindByID(_ context.Context, id tenant.ID) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "tenant", ID: id.String()}
	}
	return t, nil
}

func (m *mockTenantRepo) FindBySlug(_ context.Context, slug tenant.Slug) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Slug() == slug {
			return t, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "tenant", ID: slug.String()}
}

func (m *mockTenantRepo) SlugExists(ctx context.Context, slug tenant.Slug) (bool, error) {
	_, err := m.FindBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockTenantRepo) FindAll(_ context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*tenant.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slug() < all[j].Slug() })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockTenantRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tenants), nil
}

func (m *mockTenantRepo) Delete(_ context.Context, id tenant.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[id]; !ok {
		return &domain.NotFoundError{Entity: "tenant", ID: id.String()}
	}
	delete(m.tenants, id)
	return nil
}

// mockBus records every event it is handed.
type mockBus struct {
	events []domain.Event
	err    error
}

func (m *mockBus) Publish(_ context.Context, e domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockBus) PublishAll(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := m.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockBus) PublishEntity(ctx context.Context, source domain.EventSource) error {
	return m.PublishAll(ctx, source.ReleaseEvents())
}

// stubValidator returns fixed results regardless of input.
type stubValidator struct {
	dst string
	err error
}

func (s stubValidator) Apply(_ context.Context, _, _ string) (string, error) {
	return s.dst, s.err
}
