package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
)

// Compile-time check: TracingRecordsCourseRepository implements records.CourseRepository.
var _ records.CourseRepository = (*TracingRecordsCourseRepository)(nil)

// TracingRecordsCourseRepository wraps a records.CourseRepository with tracing.
type TracingRecordsCourseRepository struct {
	next   records.CourseRepository
	tracer trace.Tracer
}

func NewTracingRecordsCourseRepository(next records.CourseRepository) *TracingRecordsCourseRepository {
	return &TracingRecordsCourseRepository{next: next, tracer: tracer()}
}

func (r *TracingRecordsCourseRepository) Save(ctx context.Context, c *records.Course) (err error) {
	stats := c.Statistics()
	ctx, span := r.tracer.Start(ctx, "RecordsCourseRepository.Save",
		trace.WithAttributes(
			attribute.String("course.id", c.ID().String()),
			attribute.Int("course.version", c.Version()),
			attribute.Int("course.enrollments.active", stats.Active),
			attribute.Int("course.enrollments.total", stats.Total),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Save(ctx, c)
}

func (r *TracingRecordsCourseRepository) FindByID(ctx context.Context, id domain.CourseID) (_ *records.Course, err error) {
	ctx, span := r.tracer.Start(ctx, "RecordsCourseRepository.FindByID",
		trace.WithAttributes(attribute.String("course.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingRecordsCourseRepository) Exists(ctx context.Context, id domain.CourseID) (_ bool, err error) {
	ctx, span := r.tracer.Start(ctx, "RecordsCourseRepository.Exists",
		trace.WithAttributes(attribute.String("course.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.Exists(ctx, id)
}

func (r *TracingRecordsCourseRepository) FindAll(ctx context.Context) (_ []*records.Course, err error) {
	ctx, span := r.tracer.Start(ctx, "RecordsCourseRepository.FindAll")
	defer func() { end(span, err) }()

	courses, err := r.next.FindAll(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(courses)))
	}
	return courses, err
}

func (r *TracingRecordsCourseRepository) Delete(ctx context.Context, id domain.CourseID) (err error) {
	ctx, span := r.tracer.Start(ctx, "RecordsCourseRepository.Delete",
		trace.WithAttributes(attribute.String("course.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.Delete(ctx, id)
}
