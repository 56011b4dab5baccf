package records

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

	// DefaultMaxCapacity is applied by callers that create a course without a capacity.
	DefaultMaxCapacity = 100
	maxCapacityLimit   = 1000

	PlaceholderTitle       = "Course Placeholder"
	PlaceholderDescription = "Course created from enrollment event"
)

// Course is the reporting boundary. It owns its enrollments by student id.
type Course struct {
	id           domain.CourseID
	title        string
	description  string
	maxCapacity  int
	instructorID *string
	enrollments  map[domain.StudentID]*Enrollment
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewCourse validates and creates a course without enrollments.
func NewCourse(id domain.CourseID, title, description string, maxCapacity int, instructorID *string) (*Course, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateMaxCapacity(maxCapacity); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Course{
		id:           id,
		title:        title,
		description:  description,
		maxCapacity:  maxCapacity,
		instructorID: instructorID,
		enrollments:  make(map[domain.StudentID]*Enrollment),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// NewPlaceholderCourse stands in for a course this context has not heard
// about yet, so enrollments arriving first are still recorded.
func NewPlaceholderCourse(id domain.CourseID) *Course {
	now := time.Now().UTC()
	return &Course{
		id:          id,
		title:       PlaceholderTitle,
		description: PlaceholderDescription,
		maxCapacity: DefaultMaxCapacity,
		enrollments: make(map[domain.StudentID]*Enrollment),
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstituteCourse rebuilds a course and its enrollments from storage.
func ReconstituteCourse(id domain.CourseID, title, description string, maxCapacity int, instructorID *string, enrollments []*Enrollment, version int, createdAt, updatedAt time.Time) *Course {
	c := &Course{
		id:           id,
		title:        title,
		description:  description,
		maxCapacity:  maxCapacity,
		instructorID: instructorID,
		enrollments:  make(map[domain.StudentID]*Enrollment, len(enrollments)),
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
	for _, e := range enrollments {
		c.enrollments[e.StudentID()] = e
	}
	return c
}

// RecordEnrollment adds an active enrollment record. It fails if the student
// already has a record or the active enrollments have reached capacity.
func (c *Course) RecordEnrollment(studentID domain.StudentID, name, email string, enrolledAt time.Time) error {
	if c.HasEnrollmentRecord(studentID) {
		return &domain.DuplicateError{What: "enrollment record", ID: studentID.String()}
	}
	if c.IsAtMaxCapacity() {
		return &domain.CapacityError{Course: c.id.String(), Max: c.maxCapacity}
	}
	c.enrollments[studentID] = newEnrollment(studentID, c.id, name, email, enrolledAt)
	c.touch()
	return nil
}

// TransitionEnrollment moves one student's enrollment to dst, the status the
// lifecycle table resolved for the event. Returning to active takes a seat,
// so it fails when the active enrollments have reached capacity.
func (c *Course) TransitionEnrollment(studentID domain.StudentID, dst EnrollmentStatus) error {
	e, ok := c.enrollments[studentID]
	if !ok {
		return &domain.NotFoundError{Entity: "enrollment", ID: studentID.String()}
	}
	if _, err := ParseEnrollmentStatus(string(dst)); err != nil {
		return err
	}
	if dst == StatusActive && e.status != StatusActive && c.IsAtMaxCapacity() {
		return &domain.CapacityError{Course: c.id.String(), Max: c.maxCapacity}
	}
	e.moveTo(dst)
	c.touch()
	return nil
}

// UpdateInfo replaces the descriptive fields.
func (c *Course) UpdateInfo(title, description string, instructorID *string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	c.title = title
	c.description = description
	c.instructorID = instructorID
	c.touch()
	return nil
}

// HasEnrollmentRecord reports whether the student has any record, whatever its status.
func (c *Course) HasEnrollmentRecord(id domain.StudentID) bool {
	_, ok := c.enrollments[id]
	return ok
}

// Enrollment returns a copy of the student's record. Changes go through
// TransitionEnrollment so the course can hold its capacity.
func (c *Course) Enrollment(id domain.StudentID) (*Enrollment, bool) {
	e, ok := c.enrollments[id]
	if !ok {
		return nil, false
	}
	cp := *e
	return &cp, true
}

// IsAtMaxCapacity compares active enrollments against maxCapacity.
func (c *Course) IsAtMaxCapacity() bool {
	return c.CountByStatus(StatusActive) >= c.maxCapacity
}

// AvailableCapacity returns how many more active enrollments fit.
func (c *Course) AvailableCapacity() int {
	return c.maxCapacity - c.CountByStatus(StatusActive)
}

// CountByStatus counts enrollments in the given status.
func (c *Course) CountByStatus(s EnrollmentStatus) int {
	n := 0
	for _, e := range c.enrollments {
		if e.status == s {
			n++
		}
	}
	return n
}

// Statistics summarizes enrollments by status.
type Statistics struct {
	Active    int
	Completed int
	Dropped   int
	Suspended int
	Total     int
}

// Statistics returns enrollment counts by status.
func (c *Course) Statistics() Statistics {
	return Statistics{
		Active:    c.CountByStatus(StatusActive),
		Completed: c.CountByStatus(StatusCompleted),
		Dropped:   c.CountByStatus(StatusDropped),
		Suspended: c.CountByStatus(StatusSuspended),
		Total:     len(c.enrollments),
	}
}

// Enrollments returns copies of all records ordered by enroll time. With a status
// filter only matching records are returned.
func (c *Course) Enrollments(filter ...EnrollmentStatus) []*Enrollment {
	out := make([]*Enrollment, 0, len(c.enrollments))
	for _, e := range c.enrollments {
		if len(filter) == 0 || e.status == filter[0] {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].enrolledAt.Equal(out[j].enrolledAt) {
			return out[i].studentID < out[j].studentID
		}
		return out[i].enrolledAt.Before(out[j].enrolledAt)
	})
	return out
}

// SetVersion is called by repositories after a successful save.
func (c *Course) SetVersion(v int) { c.version = v }

func (c *Course) touch() { c.updatedAt = time.Now().UTC() }

func (c *Course) ID() domain.CourseID   { return c.id }
func (c *Course) Title() string         { return c.title }
func (c *Course) Description() string   { return c.description }
func (c *Course) MaxCapacity() int      { return c.maxCapacity }
func (c *Course) InstructorID() *string { return c.instructorID }
func (c *Course) Version() int          { return c.version }
func (c *Course) CreatedAt() time.Time  { return c.createdAt }
func (c *Course) UpdatedAt() time.Time  { return c.updatedAt }

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

func validateMaxCapacity(n int) error {
	if n <= 0 {
		return domain.Invalid("max capacity must be greater than 0")
	}
	if n > maxCapacityLimit {
		return domain.Invalid("max capacity cannot exceed %d", maxCapacityLimit)
	}
	return nil
}
