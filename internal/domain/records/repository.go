package records

import (
	"context"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// CourseRepository persists records courses together with their enrollments.
// Save fails with domain.ErrConcurrentUpdate when the stored version moved.
type CourseRepository interface {
	Save(ctx context.Context, c *Course) error
	FindByID(ctx context.Context, id domain.CourseID) (*Course, error)
	Exists(ctx context.Context, id domain.CourseID) (bool, error)
	FindAll(ctx context.Context) ([]*Course, error)
	Delete(ctx context.Context, id domain.CourseID) error
}
