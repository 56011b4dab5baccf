package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
)

// LearningService runs the learning-access use cases, including the entry
// point of the enrollment saga.
type LearningService struct {
	students learning.StudentRepository
	courses  learning.CourseRepository
	bus      domain.EventBus
}

// NewLearningService creates a service with the given adapters.
func NewLearningService(students learning.StudentRepository, courses learning.CourseRepository, bus domain.EventBus) *LearningService {
	return &LearningService{students: students, courses: courses, bus: bus}
}

// RegisterStudentCommand is the input of RegisterStudent.
type RegisterStudentCommand struct {
	Name  string
	Email string
}

// RegisterStudent creates a student with a unique email.
func (s *LearningService) RegisterStudent(ctx context.Context, cmd RegisterStudentCommand) (*learning.Student, error) {
	student, err := learning.NewStudent(domain.NewStudentID(), cmd.Name, cmd.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, cmd.Email, ""); err != nil {
		return nil, err
	}
	if err := s.students.Save(ctx, student); err != nil {
		return nil, fmt.Errorf("saving student: %w", err)
	}
	return student, nil
}

// UpdateStudentCommand is the input of UpdateStudent.
type UpdateStudentCommand struct {
	ID    string
	Name  string
	Email string
}

// UpdateStudent changes a student's name and email. Enrollment snapshots
// already taken are not touched.
func (s *LearningService) UpdateStudent(ctx context.Context, cmd UpdateStudentCommand) (*learning.Student, error) {
	student, err := s.GetStudent(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if err := student.UpdateInfo(cmd.Name, cmd.Email); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, cmd.Email, student.ID()); err != nil {
		return nil, err
	}
	if err := s.students.Save(ctx, student); err != nil {
		return nil, fmt.Errorf("saving student: %w", err)
	}
	return student, nil
}

func (s *LearningService) ensureEmailFree(ctx context.Context, email string, owner domain.StudentID) error {
	existing, err := s.students.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("checking email: %w", err)
	case existing.ID() != owner:
		return &domain.EmailConflictError{Email: email}
	}
	return nil
}

// GetStudent returns a student by id.
func (s *LearningService) GetStudent(ctx context.Context, id string) (*learning.Student, error) {
	sid, err := domain.ParseStudentID(id)
	if err != nil {
		return nil, err
	}
	return s.students.FindByID(ctx, sid)
}

// ListStudents returns all students.
func (s *LearningService) ListStudents(ctx context.Context) ([]*learning.Student, error) {
	return s.students.FindAll(ctx)
}

// CreateLearningCourseCommand is the input of CreateCourse. ID is optional;
// passing one lets the records context use the same identifier.
type CreateLearningCourseCommand struct {
	ID          string
	Title       string
	MaxStudents int
}

// CreateCourse creates a learning course. A zero MaxStudents means the
// default of 100.
func (s *LearningService) CreateCourse(ctx context.Context, cmd CreateLearningCourseCommand) (*learning.Course, error) {
	id := domain.NewCourseID()
	if cmd.ID != "" {
		parsed, err := domain.ParseCourseID(cmd.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}
	maxStudents := cmd.MaxStudents
	if maxStudents == 0 {
		maxStudents = learning.DefaultMaxStudents
	}

	course, err := learning.NewCourse(id, cmd.Title, maxStudents)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("saving course: %w", err)
	}
	return course, nil
}

// GetCourse returns a learning course by id.
func (s *LearningService) GetCourse(ctx context.Context, id string) (*learning.Course, error) {
	cid, err := domain.ParseCourseID(id)
	if err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, cid)
}

// ListCourses returns all learning courses.
func (s *LearningService) ListCourses(ctx context.Context) ([]*learning.Course, error) {
	return s.courses.FindAll(ctx)
}

// EnrollStudentCommand is the input of EnrollStudent.
type EnrollStudentCommand struct {
	CourseID  string
	StudentID string
}

// EnrollStudent grants learning access, persists the course, and publishes
// StudentEnrolled. The records context records the enrollment inside the
// publish call, so its failure is returned from here. The learning grant is
// already saved at that point and is not rolled back.
func (s *LearningService) EnrollStudent(ctx context.Context, cmd EnrollStudentCommand) error {
	courseID, err := domain.ParseCourseID(cmd.CourseID)
	if err != nil {
		return err
	}
	studentID, err := domain.ParseStudentID(cmd.StudentID)
	if err != nil {
		return err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}

	if err := course.GrantLearningAccess(student); err != nil {
		slog.ErrorContext(ctx, "failed to grant learning access",
			"course_id", courseID.String(),
			"student_id", studentID.String(),
			"error", err,
		)
		return err
	}

	if err := s.courses.Save(ctx, course); err != nil {
		return fmt.Errorf("saving course: %w", err)
	}

	if err := s.bus.PublishEntity(ctx, course); err != nil {
		slog.ErrorContext(ctx, "learning access granted but enrollment record failed",
			"course_id", courseID.String(),
			"student_id", studentID.String(),
			"error", err,
		)
		return err
	}

	slog.InfoContext(ctx, "student granted learning access to course",
		"course_id", courseID.String(),
		"student_id", studentID.String(),
		"student_name", student.Name(),
	)
	return nil
}
