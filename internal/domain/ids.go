package domain

import (
	"strings"

	"github.com/google/uuid"
)

// StudentID identifies a student in both bounded contexts.
type StudentID string

// CourseID identifies a course. The learning and records contexts share the
// identifier but own separate aggregates.
type CourseID string

// NewStudentID generates a random student identifier.
func NewStudentID() StudentID {
	return StudentID(uuid.NewString())
}

// ParseStudentID validates that s is a UUID.
func ParseStudentID(s string) (StudentID, error) {
	v, err := parseUUID(s, "student")
	return StudentID(v), err
}

func (id StudentID) String() string { return string(id) }

// NewCourseID generates a random course identifier.
func NewCourseID() CourseID {
	return CourseID(uuid.NewString())
}

// ParseCourseID validates that s is a UUID.
func ParseCourseID(s string) (CourseID, error) {
	v, err := parseUUID(s, "course")
	return CourseID(v), err
}

func (id CourseID) String() string { return string(id) }

func parseUUID(s, kind string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", Invalid("invalid UUID format for %s id: %q", kind, s)
	}
	return u.String(), nil
}
