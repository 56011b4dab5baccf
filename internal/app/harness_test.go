package app_test

import (
	"context"
	"testing"

	"github.com/neomorfeo/coursebridge/internal/adapter/eventbus"
	"github.com/neomorfeo/coursebridge/internal/adapter/fsm"
	"github.com/neomorfeo/coursebridge/internal/adapter/sqlite"
	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
)

// harness wires both contexts over one in-memory store and a real bus.
type harness struct {
	store    *sqlite.Store
	bus      *eventbus.Bus
	learning *app.LearningService
	records  *app.RecordsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := eventbus.New()
	recordsSvc := app.NewRecordsService(store.RecordsCourses(), fsm.New(records.EnrollmentTransitions))
	listener := app.NewEnrollmentListener(recordsSvc)
	eventbus.Subscribe(bus, listener.OnStudentEnrolled)

	return &harness{
		store:    store,
		bus:      bus,
		learning: app.NewLearningService(store.Students(), store.LearningCourses(), bus),
		records:  recordsSvc,
	}
}

func (h *harness) student(t *testing.T, name, email string) *learning.Student {
	t.Helper()
	s, err := h.learning.RegisterStudent(context.Background(), app.RegisterStudentCommand{Name: name, Email: email})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return s
}

func (h *harness) course(t *testing.T, title string, maxStudents int) *learning.Course {
	t.Helper()
	c, err := h.learning.CreateCourse(context.Background(), app.CreateLearningCourseCommand{Title: title, MaxStudents: maxStudents})
	if err != nil {
		t.Fatalf("create course %q: %v", title, err)
	}
	return c
}

func (h *harness) enroll(courseID, studentID string) error {
	return h.learning.EnrollStudent(context.Background(), app.EnrollStudentCommand{CourseID: courseID, StudentID: studentID})
}
