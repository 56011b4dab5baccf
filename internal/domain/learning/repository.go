package learning

import (
	"context"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// CourseRepository persists learning courses together with their learners.
type CourseRepository interface {
	Save(ctx context.Context, c *Course) error
	FindByID(ctx context.Context, id domain.CourseID) (*Course, error)
	Exists(ctx context.Context, id domain.CourseID) (bool, error)
	FindAll(ctx context.Context) ([]*Course, error)
}

// StudentRepository persists students.
type StudentRepository interface {
	Save(ctx context.Context, s *Student) error
	FindByID(ctx context.Context, id domain.StudentID) (*Student, error)
	Exists(ctx context.Context, id domain.StudentID) (bool, error)
	FindByEmail(ctx context.Context, email string) (*Student, error)
	FindAll(ctx context.Context) ([]*Student, error)
}
