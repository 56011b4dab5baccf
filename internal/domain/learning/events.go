package learning

import (
	"encoding/json"
	"time"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// StudentEnrolledEventName is the wire name of StudentEnrolled.
const StudentEnrolledEventName = "student_learning.student_enrolled"

// StudentEnrolled is recorded when a student is granted learning access.
// It is the only coupling surface with the records context.
type StudentEnrolled struct {
	CourseID     domain.CourseID
	StudentID    domain.StudentID
	StudentName  string
	StudentEmail string
	EnrolledAt   time.Time
}

func (StudentEnrolled) EventName() string       { return StudentEnrolledEventName }
func (e StudentEnrolled) OccurredAt() time.Time { return e.EnrolledAt }

func (e StudentEnrolled) Payload() map[string]any {
	return map[string]any{
		"course_id":     e.CourseID.String(),
		"student_id":    e.StudentID.String(),
		"student_name":  e.StudentName,
		"student_email": e.StudentEmail,
		"enrolled_at":   e.EnrolledAt.UTC().Format(domain.TimeFormat),
	}
}

func (e StudentEnrolled) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Payload())
}
