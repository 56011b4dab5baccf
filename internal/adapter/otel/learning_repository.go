package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
)

var (
	_ learning.StudentRepository = (*TracingStudentRepository)(nil)
	_ learning.CourseRepository  = (*TracingLearningCourseRepository)(nil)
)

// TracingStudentRepository wraps a learning.StudentRepository with tracing.
type TracingStudentRepository struct {
	next   learning.StudentRepository
	tracer trace.Tracer
}

func NewTracingStudentRepository(next learning.StudentRepository) *TracingStudentRepository {
	return &TracingStudentRepository{next: next, tracer: tracer()}
}

func (r *TracingStudentRepository) Save(ctx context.Context, s *learning.Student) (err error) {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.Save",
		trace.WithAttributes(attribute.String("student.id", s.ID().String())),
	)
	defer func() { end(span, err) }()

	return r.next.Save(ctx, s)
}

func (r *TracingStudentRepository) FindByID(ctx context.Context, id domain.StudentID) (_ *learning.Student, err error) {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.FindByID",
		trace.WithAttributes(attribute.String("student.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingStudentRepository) Exists(ctx context.Context, id domain.StudentID) (_ bool, err error) {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.Exists",
		trace.WithAttributes(attribute.String("student.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.Exists(ctx, id)
}

// FindByEmail does not put the address on the span.
func (r *TracingStudentRepository) FindByEmail(ctx context.Context, email string) (_ *learning.Student, err error) {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.FindByEmail")
	defer func() { end(span, err) }()

	return r.next.FindByEmail(ctx, email)
}

func (r *TracingStudentRepository) FindAll(ctx context.Context) (_ []*learning.Student, err error) {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.FindAll")
	defer func() { end(span, err) }()

	students, err := r.next.FindAll(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(students)))
	}
	return students, err
}

// TracingLearningCourseRepository wraps a learning.CourseRepository with tracing.
type TracingLearningCourseRepository struct {
	next   learning.CourseRepository
	tracer trace.Tracer
}

func NewTracingLearningCourseRepository(next learning.CourseRepository) *TracingLearningCourseRepository {
	return &TracingLearningCourseRepository{next: next, tracer: tracer()}
}

func (r *TracingLearningCourseRepository) Save(ctx context.Context, c *learning.Course) (err error) {
	ctx, span := r.tracer.Start(ctx, "LearningCourseRepository.Save",
		trace.WithAttributes(
			attribute.String("course.id", c.ID().String()),
			attribute.Int("course.version", c.Version()),
			attribute.Int("course.learners", c.LearnerCount()),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Save(ctx, c)
}

func (r *TracingLearningCourseRepository) FindByID(ctx context.Context, id domain.CourseID) (_ *learning.Course, err error) {
	ctx, span := r.tracer.Start(ctx, "LearningCourseRepository.FindByID",
		trace.WithAttributes(attribute.String("course.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingLearningCourseRepository) Exists(ctx context.Context, id domain.CourseID) (_ bool, err error) {
	ctx, span := r.tracer.Start(ctx, "LearningCourseRepository.Exists",
		trace.WithAttributes(attribute.String("course.id", id.String())),
	)
	defer func() { end(span, err) }()

	return r.next.Exists(ctx, id)
}

func (r *TracingLearningCourseRepository) FindAll(ctx context.Context) (_ []*learning.Course, err error) {
	ctx, span := r.tracer.Start(ctx, "LearningCourseRepository.FindAll")
	defer func() { end(span, err) }()

	courses, err := r.next.FindAll(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(courses)))
	}
	return courses, err
}
