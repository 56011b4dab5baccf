package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

// TracingTenantRepository wraps a tenant.Repository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingTenantRepository struct {
	next   tenant.Repository
	tracer trace.Tracer
}

// Compile-time check: TracingTenantRepository implements tenant.Repository.
var _ tenant.Repository = (*TracingTenantRepository)(nil)

// NewTracingTenantRepository creates a tracing decorator around the given repository.
func NewTracingTenantRepository(next tenant.Repository) *TracingTenantRepository {
	return &TracingTenantRepository{
		next:   next,
		tracer: tracer(),
	}
}

func (r *TracingTenantRepository) Save(ctx context.Context, t *tenant.Tenant) (err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.Save",
		trace.WithAttributes(
			attribute.String("tenant.id", t.ID().String()),
			attribute.String("tenant.slug", t.Slug().String()),
			attribute.String("tenant.status", string(t.Status())),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Save(ctx, t)
}

func (r *TracingTenantRepository) FindByID(ctx context.Context, id tenant.ID) (_ *tenant.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.FindByID",
		trace.WithAttributes(attribute.String("tenant.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingTenantRepository) FindBySlug(ctx context.Context, slug tenant.Slug) (_ *tenant.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.FindBySlug",
		trace.WithAttributes(attribute.String("tenant.slug", slug.String())),
	)
	defer func() { end(span, err) }()

	return r.next.FindBySlug(ctx, slug)
}

func (r *TracingTenantRepository) SlugExists(ctx context.Context, slug tenant.Slug) (_ bool, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.SlugExists",
		trace.WithAttributes(attribute.String("tenant.slug", slug.String())),
	)
	defer func() { end(span, err) }()

	exists, err := r.next.SlugExists(ctx, slug)
	span.SetAttributes(attribute.Bool("result.exists", exists))
	return exists, err
}

func (r *TracingTenantRepository) FindAll(ctx context.Context, limit, offset int) (_ []*tenant.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.FindAll",
		trace.WithAttributes(
			attribute.Int("filter.limit", limit),
			attribute.Int("filter.offset", offset),
		),
	)
	defer func() { end(span, err) }()

	tenants, err := r.next.FindAll(ctx, limit, offset)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(tenants)))
	}
	return tenants, err
}

func (r *TracingTenantRepository) Count(ctx context.Context) (_ int, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.Count")
	defer func() { end(span, err) }()

	n, err := r.next.Count(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", n))
	}
	return n, err
}

func (r *TracingTenantRepository) Delete(ctx context.Context, id tenant.ID) (err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.Delete",
		trace.WithAttributes(attribute.String("tenant.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.Delete(ctx, id)
}
