package learning

import (
	"time"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// EnrollmentDate is the instant a student was granted access. It can never
// lie in the future; callers with skewed clocks must clamp before building one.
type EnrollmentDate struct {
	t time.Time
}

// NewEnrollmentDate rejects instants strictly after now.
func NewEnrollmentDate(t time.Time) (EnrollmentDate, error) {
	if t.After(time.Now()) {
		return EnrollmentDate{}, domain.Invalid("enrollment date cannot be in the future")
	}
	return EnrollmentDate{t: t.UTC()}, nil
}

// EnrollmentDateNow returns the current instant.
func EnrollmentDateNow() EnrollmentDate {
	return EnrollmentDate{t: time.Now().UTC()}
}

// ParseEnrollmentDate parses an RFC 3339 timestamp.
func ParseEnrollmentDate(s string) (EnrollmentDate, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return EnrollmentDate{}, domain.Invalid("invalid enrollment date %q", s)
	}
	return NewEnrollmentDate(t)
}

func (d EnrollmentDate) Time() time.Time { return d.t }

func (d EnrollmentDate) Before(o EnrollmentDate) bool { return d.t.Before(o.t) }
func (d EnrollmentDate) After(o EnrollmentDate) bool  { return d.t.After(o.t) }
func (d EnrollmentDate) Equal(o EnrollmentDate) bool  { return d.t.Equal(o.t) }

func (d EnrollmentDate) String() string {
	return d.t.Format(domain.TimeFormat)
}
