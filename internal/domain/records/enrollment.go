// Package records is the administrative-records context: it tracks the
// status of every enrollment for reporting.
package records

import (
	"strings"
	"time"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// EnrollmentStatus is the administrative state of one enrollment.
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusCompleted EnrollmentStatus = "completed"
	StatusDropped   EnrollmentStatus = "dropped"
	StatusSuspended EnrollmentStatus = "suspended"
)

// ParseEnrollmentStatus accepts any casing of a known status.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch st := EnrollmentStatus(strings.ToLower(s)); st {
	case StatusActive, StatusCompleted, StatusDropped, StatusSuspended:
		return st, nil
	}
	return "", domain.Invalid("invalid enrollment status: %s", s)
}

func (s EnrollmentStatus) IsActive() bool { return s == StatusActive }

// CanAttendClasses is true only for active enrollments.
func (s EnrollmentStatus) CanAttendClasses() bool { return s.IsActive() }

// Enrollment lifecycle events.
const (
	EventComplete   = "complete"
	EventDrop       = "drop"
	EventSuspend    = "suspend"
	EventReactivate = "reactivate"
)

// EnrollmentTransitions defines every legal enrollment state change and
// backs the lifecycle validator. Completed and dropped are terminal.
var EnrollmentTransitions = domain.Transitions{
	{Event: EventComplete, Src: string(StatusActive), Dst: string(StatusCompleted)},
	{Event: EventDrop, Src: string(StatusActive), Dst: string(StatusDropped)},
	{Event: EventDrop, Src: string(StatusSuspended), Dst: string(StatusDropped)},
	{Event: EventSuspend, Src: string(StatusActive), Dst: string(StatusSuspended)},
	{Event: EventReactivate, Src: string(StatusSuspended), Dst: string(StatusActive)},
}

// Enrollment is one student's administrative record for one course. The
// student name and email are snapshots taken at enroll time.
type Enrollment struct {
	studentID    domain.StudentID
	courseID     domain.CourseID
	studentName  string
	studentEmail string
	status       EnrollmentStatus
	enrolledAt   time.Time
	updatedAt    time.Time
	completedAt  *time.Time
	droppedAt    *time.Time
}

func newEnrollment(studentID domain.StudentID, courseID domain.CourseID, name, email string, enrolledAt time.Time) *Enrollment {
	return &Enrollment{
		studentID:    studentID,
		courseID:     courseID,
		studentName:  name,
		studentEmail: email,
		status:       StatusActive,
		enrolledAt:   enrolledAt.UTC(),
		updatedAt:    time.Now().UTC(),
	}
}

// EnrollmentRecord carries the stored fields of an enrollment.
type EnrollmentRecord struct {
	StudentID    domain.StudentID
	CourseID     domain.CourseID
	StudentName  string
	StudentEmail string
	Status       EnrollmentStatus
	EnrolledAt   time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	DroppedAt    *time.Time
}

// ReconstituteEnrollment rebuilds an enrollment from storage.
func ReconstituteEnrollment(r EnrollmentRecord) *Enrollment {
	return &Enrollment{
		studentID:    r.StudentID,
		courseID:     r.CourseID,
		studentName:  r.StudentName,
		studentEmail: r.StudentEmail,
		status:       r.Status,
		enrolledAt:   r.EnrolledAt,
		updatedAt:    r.UpdatedAt,
		completedAt:  r.CompletedAt,
		droppedAt:    r.DroppedAt,
	}
}

// Complete finishes an active enrollment.
func (e *Enrollment) Complete() error {
	return e.fire(EventComplete, StatusCompleted)
}

// Drop withdraws an active or suspended enrollment.
func (e *Enrollment) Drop() error {
	return e.fire(EventDrop, StatusDropped)
}

// Suspend pauses an active enrollment.
func (e *Enrollment) Suspend() error {
	return e.fire(EventSuspend, StatusSuspended)
}

// Reactivate resumes a suspended enrollment.
func (e *Enrollment) Reactivate() error {
	return e.fire(EventReactivate, StatusActive)
}

func (e *Enrollment) fire(event string, dst EnrollmentStatus) error {
	if !e.allows(event) {
		return e.RejectionFor(event)
	}
	e.moveTo(dst)
	return nil
}

func (e *Enrollment) allows(event string) bool {
	switch event {
	case EventComplete, EventSuspend:
		return e.status == StatusActive
	case EventDrop:
		return e.status == StatusActive || e.status == StatusSuspended
	case EventReactivate:
		return e.status == StatusSuspended
	}
	return false
}

// RejectionFor explains why event cannot fire from the current status.
func (e *Enrollment) RejectionFor(event string) error {
	err := &domain.TransitionError{Event: event, Current: string(e.status)}
	switch event {
	case EventComplete:
		err.Reason = "only active enrollments can be completed"
	case EventDrop:
		switch e.status {
		case StatusCompleted:
			err.Reason = "cannot drop a completed enrollment"
		case StatusDropped:
			err.Reason = "enrollment is already dropped"
		}
	case EventSuspend:
		err.Reason = "only active enrollments can be suspended"
	case EventReactivate:
		err.Reason = "only suspended enrollments can be reactivated"
	}
	return err
}

// moveTo sets dst and stamps the terminal timestamps.
func (e *Enrollment) moveTo(dst EnrollmentStatus) {
	now := time.Now().UTC()
	switch dst {
	case StatusCompleted:
		e.completedAt = &now
	case StatusDropped:
		e.droppedAt = &now
	}
	e.status = dst
	e.updatedAt = now
}

func (e *Enrollment) StudentID() domain.StudentID { return e.studentID }
func (e *Enrollment) CourseID() domain.CourseID   { return e.courseID }
func (e *Enrollment) StudentName() string         { return e.studentName }
func (e *Enrollment) StudentEmail() string        { return e.studentEmail }
func (e *Enrollment) Status() EnrollmentStatus    { return e.status }
func (e *Enrollment) EnrolledAt() time.Time       { return e.enrolledAt }
func (e *Enrollment) UpdatedAt() time.Time        { return e.updatedAt }
func (e *Enrollment) CompletedAt() *time.Time     { return e.completedAt }
func (e *Enrollment) DroppedAt() *time.Time       { return e.droppedAt }
