package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain"
)

func TestRegisterStudent_EmailConflict(t *testing.T) {
	h := newHarness(t)
	h.student(t, "Alice Doe", "alice@example.test")

	_, err := h.learning.RegisterStudent(context.Background(), app.RegisterStudentCommand{
		Name: "Another Alice", Email: "alice@example.test",
	})
	var conflict *domain.EmailConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected EmailConflictError, got %v", err)
	}
	if conflict.Email != "alice@example.test" {
		t.Errorf("Email = %q", conflict.Email)
	}
}

func TestRegisterStudent_Validation(t *testing.T) {
	h := newHarness(t)

	for _, cmd := range []app.RegisterStudentCommand{
		{Name: "A", Email: "a@example.test"},
		{Name: "Alice", Email: "nope"},
		{Name: "  ", Email: "a@example.test"},
	} {
		if _, err := h.learning.RegisterStudent(context.Background(), cmd); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("RegisterStudent(%+v) error = %v, want validation", cmd, err)
		}
	}
}

func TestUpdateStudent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.student(t, "Alice Doe", "alice@example.test")
	h.student(t, "Bob Roe", "bob@example.test")

	// Keeping one's own email is not a conflict.
	if _, err := h.learning.UpdateStudent(ctx, app.UpdateStudentCommand{
		ID: alice.ID().String(), Name: "Alice Smith", Email: "alice@example.test",
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	_, err := h.learning.UpdateStudent(ctx, app.UpdateStudentCommand{
		ID: alice.ID().String(), Name: "Alice Smith", Email: "bob@example.test",
	})
	var conflict *domain.EmailConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected EmailConflictError, got %v", err)
	}

	got, err := h.learning.GetStudent(ctx, alice.ID().String())
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if got.Name() != "Alice Smith" || got.Email() != "alice@example.test" {
		t.Errorf("stored = %q <%s>", got.Name(), got.Email())
	}
}

func TestListStudentsAndCourses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.student(t, "Alice Doe", "alice@example.test")
	h.student(t, "Bob Roe", "bob@example.test")
	h.course(t, "Networks", 20)

	students, err := h.learning.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 2 {
		t.Errorf("students = %d, want 2", len(students))
	}
	courses, err := h.learning.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 1 || courses[0].MaxStudents() != 20 {
		t.Errorf("courses = %+v", courses)
	}
}

func TestCreateLearningCourse_ExplicitID(t *testing.T) {
	h := newHarness(t)
	id := domain.NewCourseID()

	c, err := h.learning.CreateCourse(context.Background(), app.CreateLearningCourseCommand{
		ID: id.String(), Title: "Operating Systems",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if c.ID() != id {
		t.Errorf("ID = %q, want %q", c.ID(), id)
	}

	_, err = h.learning.CreateCourse(context.Background(), app.CreateLearningCourseCommand{
		ID: id.String(), Title: "Operating Systems",
	})
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Errorf("second create error = %v, want concurrent update", err)
	}
}
