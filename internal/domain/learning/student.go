// Package learning is the learning-access context: it decides who may view
// course material.
package learning

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

const (
	studentNameMinLength = 2
	studentNameMaxLength = 255
)

// Student is a learner identity.
type Student struct {
	id        domain.StudentID
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewStudent validates and creates a student.
func NewStudent(id domain.StudentID, name, email string) (*Student, error) {
	if err := validateStudent(name, email); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Student{id: id, name: name, email: email, createdAt: now, updatedAt: now}, nil
}

// ReconstituteStudent rebuilds a student from storage.
func ReconstituteStudent(id domain.StudentID, name, email string, createdAt, updatedAt time.Time) *Student {
	return &Student{id: id, name: name, email: email, createdAt: createdAt, updatedAt: updatedAt}
}

// UpdateInfo replaces name and email. Existing enrollment snapshots keep the
// values they were taken with.
func (s *Student) UpdateInfo(name, email string) error {
	if err := validateStudent(name, email); err != nil {
		return err
	}
	s.name = name
	s.email = email
	s.updatedAt = time.Now().UTC()
	return nil
}

func (s *Student) ID() domain.StudentID { return s.id }
func (s *Student) Name() string         { return s.name }
func (s *Student) Email() string        { return s.email }
func (s *Student) CreatedAt() time.Time { return s.createdAt }
func (s *Student) UpdatedAt() time.Time { return s.updatedAt }

func validateStudent(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("student name cannot be empty")
	}
	n := utf8.RuneCountInString(name)
	if n < studentNameMinLength {
		return domain.Invalid("student name must be at least %d characters long", studentNameMinLength)
	}
	if n > studentNameMaxLength {
		return domain.Invalid("student name cannot exceed %d characters", studentNameMaxLength)
	}

	if strings.TrimSpace(email) == "" {
		return domain.Invalid("student email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invalid("invalid email format")
	}
	return nil
}
