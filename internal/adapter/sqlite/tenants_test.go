package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

func newTenant(t *testing.T, name, slug string) *tenant.Tenant {
	t.Helper()
	s, err := tenant.NewSlug(slug)
	if err != nil {
		t.Fatalf("NewSlug(%q): %v", slug, err)
	}
	email, _ := tenant.NewContactEmail("admin@" + slug + ".test")
	tn, err := tenant.New(tenant.NewID(), name, s, email, nil)
	if err != nil {
		t.Fatalf("tenant.New: %v", err)
	}
	return tn
}

func TestTenantSave_And_FindByID(t *testing.T) {
	repo := newTestStore(t).Tenants()
	ctx := context.Background()

	phone := "+34 600 000 000"
	tn := newTenant(t, "Acme Corp", "acme-corp")
	if err := tn.UpdateInfo("Acme Corp", tn.ContactEmail(), &phone); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}

	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.FindByID(ctx, tn.ID())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if got.Name() != "Acme Corp" {
		t.Errorf("Name = %q, want %q", got.Name(), "Acme Corp")
	}
	if got.Slug() != "acme-corp" {
		t.Errorf("Slug = %q, want %q", got.Slug(), "acme-corp")
	}
	if got.Status() != tenant.StatusPending {
		t.Errorf("Status = %q, want %q", got.Status(), tenant.StatusPending)
	}
	if got.ContactPhone() == nil || *got.ContactPhone() != phone {
		t.Errorf("ContactPhone = %v, want %q", got.ContactPhone(), phone)
	}
	if !got.CreatedAt().Equal(tn.CreatedAt()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt(), tn.CreatedAt())
	}
	if got.PendingEvents() != 0 {
		t.Error("reconstituted tenant should have no pending events")
	}
}

func TestTenantFindByID_NotFound(t *testing.T) {
	repo := newTestStore(t).Tenants()

	_, err := repo.FindByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantFindBySlug(t *testing.T) {
	store := newTestStore(t)
	repo := store.Tenants()
	ctx := context.Background()

	tn := newTenant(t, "Acme", "acme")
	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.FindBySlug(ctx, "acme")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if got.ID() != tn.ID() {
		t.Errorf("ID = %q, want %q", got.ID(), tn.ID())
	}

	exists, err := repo.SlugExists(ctx, "acme")
	if err != nil || !exists {
		t.Errorf("SlugExists(acme) = (%v, %v), want (true, nil)", exists, err)
	}
	exists, err = repo.SlugExists(ctx, "other")
	if err != nil || exists {
		t.Errorf("SlugExists(other) = (%v, %v), want (false, nil)", exists, err)
	}

	if _, err := repo.FindBySlug(ctx, "other"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantSave_DuplicateSlug(t *testing.T) {
	repo := newTestStore(t).Tenants()
	ctx := context.Background()

	if err := repo.Save(ctx, newTenant(t, "Acme", "acme")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := repo.Save(ctx, newTenant(t, "Acme 2", "acme"))

	var slugErr *domain.SlugConflictError
	if !errors.As(err, &slugErr) {
		t.Fatalf("expected SlugConflictError, got %v", err)
	}
	if slugErr.Slug != "acme" {
		t.Errorf("slug = %q, want %q", slugErr.Slug, "acme")
	}
}

func TestTenantSave_Update(t *testing.T) {
	repo := newTestStore(t).Tenants()
	ctx := context.Background()

	tn := newTenant(t, "Acme", "acme")
	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tn.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := tn.UpdateInfo("Acme Updated", tn.ContactEmail(), nil); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}
	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, _ := repo.FindByID(ctx, tn.ID())
	if got.Status() != tenant.StatusActive {
		t.Errorf("Status = %q, want %q", got.Status(), tenant.StatusActive)
	}
	if got.Name() != "Acme Updated" {
		t.Errorf("Name = %q, want %q", got.Name(), "Acme Updated")
	}
	if got.UpdatedAt().Before(got.CreatedAt()) {
		t.Error("UpdatedAt should not be before CreatedAt")
	}
}

func TestTenantFindAll_Pagination(t *testing.T) {
	repo := newTestStore(t).Tenants()
	ctx := context.Background()

	for i := range 5 {
		if err := repo.Save(ctx, newTenant(t, "Tenant", fmt.Sprintf("slug-%d", i))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	tenants, err := repo.FindAll(ctx, 2, 1)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(tenants) != 2 {
		t.Errorf("got %d tenants, want 2", len(tenants))
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Count = %d, want 5", n)
	}
}

func TestTenantDelete(t *testing.T) {
	repo := newTestStore(t).Tenants()
	ctx := context.Background()

	tn := newTenant(t, "Acme", "acme")
	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, tn.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, tn.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, tn.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestTenantFindByID_CorruptTimestamp(t *testing.T) {
	store := newTestStore(t)
	repo := store.Tenants()
	ctx := context.Background()

	tn := newTenant(t, "Acme Corp", "acme-corp")
	if err := repo.Save(ctx, tn); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.DB().ExecContext(ctx, `UPDATE tenants SET created_at = 'yesterday' WHERE id = ?`, tn.ID().String()); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	_, err := repo.FindByID(ctx, tn.ID())
	if err == nil || !strings.Contains(err.Error(), "created_at") {
		t.Fatalf("FindByID error = %v, want a created_at parse failure", err)
	}
}
