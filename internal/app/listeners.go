package app

import (
	"context"
	"log/slog"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

// EnrollmentRecorder is the records use case the listener drives.
type EnrollmentRecorder interface {
	RecordEnrollment(ctx context.Context, cmd RecordEnrollmentCommand) error
}

// EnrollmentListener carries StudentEnrolled from the learning context into
// the records context. Its error propagates back to the publisher.
type EnrollmentListener struct {
	records EnrollmentRecorder
}

func NewEnrollmentListener(records EnrollmentRecorder) *EnrollmentListener {
	return &EnrollmentListener{records: records}
}

// OnStudentEnrolled translates the event into a RecordEnrollmentCommand.
func (l *EnrollmentListener) OnStudentEnrolled(ctx context.Context, e learning.StudentEnrolled) error {
	log := slog.With(
		"course_id", e.CourseID.String(),
		"student_id", e.StudentID.String(),
	)
	log.InfoContext(ctx, "processing student enrolled event in records context",
		"student_name", e.StudentName,
		"enrolled_at", e.EnrolledAt.UTC().Format(domain.TimeFormat),
	)

	err := l.records.RecordEnrollment(ctx, RecordEnrollmentCommand{
		CourseID:     e.CourseID.String(),
		StudentID:    e.StudentID.String(),
		StudentName:  e.StudentName,
		StudentEmail: e.StudentEmail,
		EnrolledAt:   e.EnrolledAt,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to process student enrolled event", "error", err)
		return err
	}

	log.InfoContext(ctx, "processed student enrolled event")
	return nil
}

// TenantCreatedListener logs new tenants.
type TenantCreatedListener struct{}

func (TenantCreatedListener) OnTenantCreated(ctx context.Context, e tenant.Created) error {
	slog.InfoContext(ctx, "tenant created",
		"tenant_id", e.TenantID.String(),
		"tenant_name", e.Name,
		"tenant_slug", e.Slug.String(),
		"occurred_at", e.At.UTC().Format(domain.TimeFormat),
	)
	return nil
}
