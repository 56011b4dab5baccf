package learning

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

const (
	titleMinLength = 3
	titleMaxLength = 255

	// DefaultMaxStudents is applied by callers that create a course without a limit.
	DefaultMaxStudents = 100
	maxStudentsLimit   = 1000
)

// Learner is a student's learning-access entry in a course. Name and email
// are copied at grant time.
type Learner struct {
	StudentID  domain.StudentID
	Name       string
	Email      string
	EnrolledAt EnrollmentDate
}

// Course is the access-control boundary for course material.
type Course struct {
	domain.EventRecorder

	id          domain.CourseID
	title       string
	maxStudents int
	learners    map[domain.StudentID]Learner
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCourse validates and creates a course with no learners.
func NewCourse(id domain.CourseID, title string, maxStudents int) (*Course, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateMaxStudents(maxStudents); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Course{
		id:          id,
		title:       title,
		maxStudents: maxStudents,
		learners:    make(map[domain.StudentID]Learner),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstituteCourse rebuilds a course from storage.
func ReconstituteCourse(id domain.CourseID, title string, maxStudents int, learners []Learner, version int, createdAt, updatedAt time.Time) *Course {
	c := &Course{
		id:          id,
		title:       title,
		maxStudents: maxStudents,
		learners:    make(map[domain.StudentID]Learner, len(learners)),
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	for _, l := range learners {
		c.learners[l.StudentID] = l
	}
	return c
}

// GrantLearningAccess gives student access to the course and records a
// StudentEnrolled event. It fails on a duplicate grant or when the course is
// full; the course is unchanged on failure.
func (c *Course) GrantLearningAccess(student *Student) error {
	if c.HasLearningAccess(student.ID()) {
		return &domain.DuplicateError{What: "learning access", ID: student.ID().String()}
	}
	if c.IsAtCapacity() {
		return &domain.CapacityError{Course: c.id.String(), Max: c.maxStudents}
	}

	enrolledAt := EnrollmentDateNow()
	c.learners[student.ID()] = Learner{
		StudentID:  student.ID(),
		Name:       student.Name(),
		Email:      student.Email(),
		EnrolledAt: enrolledAt,
	}
	c.updatedAt = time.Now().UTC()

	c.Record(StudentEnrolled{
		CourseID:     c.id,
		StudentID:    student.ID(),
		StudentName:  student.Name(),
		StudentEmail: student.Email(),
		EnrolledAt:   enrolledAt.Time(),
	})
	return nil
}

// HasLearningAccess reports whether the student was granted access.
func (c *Course) HasLearningAccess(id domain.StudentID) bool {
	_, ok := c.learners[id]
	return ok
}

// IsAtCapacity is true once the learner count reaches maxStudents.
func (c *Course) IsAtCapacity() bool {
	return len(c.learners) >= c.maxStudents
}

// LearnerCount returns the number of students with access.
func (c *Course) LearnerCount() int { return len(c.learners) }

// AvailableSlots returns how many more students can be granted access.
func (c *Course) AvailableSlots() int { return c.maxStudents - len(c.learners) }

// Learners returns the learner entries ordered by grant time.
func (c *Course) Learners() []Learner {
	out := make([]Learner, 0, len(c.learners))
	for _, l := range c.learners {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EnrolledAt.Before(out[j].EnrolledAt)
	})
	return out
}

// SetVersion is called by repositories after a successful save.
func (c *Course) SetVersion(v int) { c.version = v }

func (c *Course) ID() domain.CourseID  { return c.id }
func (c *Course) Title() string        { return c.title }
func (c *Course) MaxStudents() int     { return c.maxStudents }
func (c *Course) Version() int         { return c.version }
func (c *Course) CreatedAt() time.Time { return c.createdAt }
func (c *Course) UpdatedAt() time.Time { return c.updatedAt }

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.Invalid("course title cannot be empty")
	}
	n := utf8.RuneCountInString(title)
	if n < titleMinLength {
		return domain.Invalid("course title must be at least %d characters long", titleMinLength)
	}
	if n > titleMaxLength {
		return domain.Invalid("course title cannot exceed %d characters", titleMaxLength)
	}
	return nil
}

func validateMaxStudents(n int) error {
	if n <= 0 {
		return domain.Invalid("max students must be greater than 0")
	}
	if n > maxStudentsLimit {
		return domain.Invalid("max students cannot exceed %d", maxStudentsLimit)
	}
	return nil
}
