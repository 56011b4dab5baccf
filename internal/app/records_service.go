package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
)

// RecordsService runs the administrative-records use cases.
type RecordsService struct {
	courses   records.CourseRepository
	validator domain.TransitionValidator
}

// NewRecordsService creates a service with the given adapters. The
// validator must hold records.EnrollmentTransitions.
func NewRecordsService(courses records.CourseRepository, validator domain.TransitionValidator) *RecordsService {
	return &RecordsService{courses: courses, validator: validator}
}

// CreateRecordsCourseCommand is the input of CreateCourse.
type CreateRecordsCourseCommand struct {
	ID           string
	Title        string
	Description  string
	MaxCapacity  int
	InstructorID *string
}

// CreateCourse creates a records course. A zero MaxCapacity means the
// default of 100.
func (s *RecordsService) CreateCourse(ctx context.Context, cmd CreateRecordsCourseCommand) (*records.Course, error) {
	id := domain.NewCourseID()
	if cmd.ID != "" {
		parsed, err := domain.ParseCourseID(cmd.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	exists, err := s.courses.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checking course: %w", err)
	}
	if exists {
		return nil, domain.Invalid("course %s already exists", id)
	}

	capacity := cmd.MaxCapacity
	if capacity == 0 {
		capacity = records.DefaultMaxCapacity
	}
	course, err := records.NewCourse(id, cmd.Title, cmd.Description, capacity, cmd.InstructorID)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("saving course: %w", err)
	}
	return course, nil
}

// GetCourse returns a records course by id.
func (s *RecordsService) GetCourse(ctx context.Context, id string) (*records.Course, error) {
	cid, err := domain.ParseCourseID(id)
	if err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, cid)
}

// ListCourses returns all records courses.
func (s *RecordsService) ListCourses(ctx context.Context) ([]*records.Course, error) {
	return s.courses.FindAll(ctx)
}

// UpdateRecordsCourseCommand is the input of UpdateCourse.
type UpdateRecordsCourseCommand struct {
	ID           string
	Title        string
	Description  string
	InstructorID *string
}

// UpdateCourse replaces a course's descriptive fields. This is how a
// placeholder course gets its real title.
func (s *RecordsService) UpdateCourse(ctx context.Context, cmd UpdateRecordsCourseCommand) (*records.Course, error) {
	course, err := s.GetCourse(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if err := course.UpdateInfo(cmd.Title, cmd.Description, cmd.InstructorID); err != nil {
		return nil, err
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("saving course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course and all of its enrollment records.
func (s *RecordsService) DeleteCourse(ctx context.Context, id string) error {
	cid, err := domain.ParseCourseID(id)
	if err != nil {
		return err
	}
	return s.courses.Delete(ctx, cid)
}

// RecordEnrollmentCommand is the records-side view of an enrollment.
type RecordEnrollmentCommand struct {
	CourseID     string
	StudentID    string
	StudentName  string
	StudentEmail string
	EnrolledAt   time.Time
}

// RecordEnrollment adds an active enrollment record. A course this context
// has not seen yet is created as a placeholder.
func (s *RecordsService) RecordEnrollment(ctx context.Context, cmd RecordEnrollmentCommand) error {
	courseID, err := domain.ParseCourseID(cmd.CourseID)
	if err != nil {
		return err
	}
	studentID, err := domain.ParseStudentID(cmd.StudentID)
	if err != nil {
		return err
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if errors.Is(err, domain.ErrNotFound) {
		course = records.NewPlaceholderCourse(courseID)
		slog.InfoContext(ctx, "created course placeholder from enrollment event",
			"course_id", courseID.String(),
		)
	} else if err != nil {
		return err
	}

	if err := course.RecordEnrollment(studentID, cmd.StudentName, cmd.StudentEmail, cmd.EnrolledAt); err != nil {
		slog.ErrorContext(ctx, "failed to record enrollment",
			"course_id", courseID.String(),
			"student_id", studentID.String(),
			"error", err,
		)
		return err
	}

	if err := s.courses.Save(ctx, course); err != nil {
		return fmt.Errorf("saving course: %w", err)
	}

	slog.InfoContext(ctx, "enrollment recorded in administrative system",
		"course_id", courseID.String(),
		"student_id", studentID.String(),
		"student_name", cmd.StudentName,
		"enrolled_at", cmd.EnrolledAt.UTC().Format(domain.TimeFormat),
	)
	return nil
}

// TransitionEnrollment applies complete, drop, suspend or reactivate to
// one student's enrollment.
func (s *RecordsService) TransitionEnrollment(ctx context.Context, courseID, studentID, event string) (*records.Enrollment, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sid, err := domain.ParseStudentID(studentID)
	if err != nil {
		return nil, err
	}
	enrollment, ok := course.Enrollment(sid)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "enrollment", ID: sid.String()}
	}

	from := enrollment.Status()
	dst, err := resolveTransition(ctx, s.validator, string(from), event, enrollment.RejectionFor)
	if err != nil {
		return nil, err
	}
	if err := course.TransitionEnrollment(sid, records.EnrollmentStatus(dst)); err != nil {
		return nil, err
	}
	enrollment, _ = course.Enrollment(sid)

	if err := s.courses.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("saving course: %w", err)
	}

	slog.InfoContext(ctx, "enrollment status changed",
		"course_id", course.ID().String(),
		"student_id", sid.String(),
		"event", event,
		"from", string(from),
		"to", string(enrollment.Status()),
	)
	return enrollment, nil
}

// Statistics returns the enrollment counts of a course.
func (s *RecordsService) Statistics(ctx context.Context, courseID string) (records.Statistics, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return records.Statistics{}, err
	}
	return course.Statistics(), nil
}
