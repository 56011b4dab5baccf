package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

// Compile-time check: TenantRepository implements tenant.Repository.
var _ tenant.Repository = (*TenantRepository)(nil)

// TenantRepository implements tenant.Repository using SQLite.
type TenantRepository struct {
	db *sql.DB
}

const tenantColumns = `id, name, slug, contact_email, contact_phone, status, created_at, updated_at`

// Save inserts the tenant or updates it in place. The slug's UNIQUE
// constraint turns a lost check-then-insert race into a SlugConflictError.
func (r *TenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (`+tenantColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   slug = excluded.slug,
		   contact_email = excluded.contact_email,
		   contact_phone = excluded.contact_phone,
		   status = excluded.status,
		   updated_at = excluded.updated_at`,
		t.ID().String(), t.Name(), t.Slug().String(), t.ContactEmail().String(),
		nullString(t.ContactPhone()), string(t.Status()),
		formatTime(t.CreatedAt()), formatTime(t.UpdatedAt()),
	)
	if err != nil {
		if isUniqueViolationOn(err, "slug") {
			return &domain.SlugConflictError{Slug: t.Slug().String()}
		}
		return fmt.Errorf("saving tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id tenant.ID) (*tenant.Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "tenant", ID: id.String()}
	}
	return t, err
}

func (r *TenantRepository) FindBySlug(ctx context.Context, slug tenant.Slug) (*tenant.Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "tenant", ID: slug.String()}
	}
	return t, err
}

func (r *TenantRepository) SlugExists(ctx context.Context, slug tenant.Slug) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE slug = ?)`, slug.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return exists, nil
}

// FindAll returns tenants newest first.
func (r *TenantRepository) FindAll(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants
		 ORDER BY created_at DESC, id
		 LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func (r *TenantRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tenants: %w", err)
	}
	return n, nil
}

func (r *TenantRepository) Delete(ctx context.Context, id tenant.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "tenant", ID: id.String()}
	}
	return nil
}

// scanTenant returns sql.ErrNoRows unwrapped so callers can map it.
func scanTenant(row rowScanner) (*tenant.Tenant, error) {
	var id, name, slug, email, status, createdAt, updatedAt string
	var phone sql.NullString

	err := row.Scan(&id, &name, &slug, &email, &phone, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning tenant: %w", err)
	}

	var tp timeParser
	created, updated := tp.at("created_at", createdAt), tp.at("updated_at", updatedAt)
	if tp.err != nil {
		return nil, fmt.Errorf("scanning tenant %s: %w", id, tp.err)
	}

	return tenant.Reconstitute(
		tenant.ID(id), name, tenant.Slug(slug), tenant.ContactEmail(email),
		stringPtr(phone), tenant.Status(status),
		created, updated,
	), nil
}
