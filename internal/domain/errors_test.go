package domain_test

import (
	"errors"
	"testing"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

func TestSlugConflictError_Error(t *testing.T) {
	err := &domain.SlugConflictError{Slug: "acme"}
	want := `slug "acme" is already in use`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("SlugConflictError should match ErrValidation")
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{Event: "suspend", Current: "suspended"}
	want := `event "suspend" is not valid from state "suspended"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Reason = "tenant is already suspended"
	if got := err.Error(); got != err.Reason {
		t.Errorf("Error() = %q, want %q", got, err.Reason)
	}
}

func TestNotFoundError(t *testing.T) {
	err := &domain.NotFoundError{Entity: "course", ID: "abc"}
	want := `course "abc" not found`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if errors.Is(err, domain.ErrValidation) {
		t.Error("NotFoundError should not match ErrValidation")
	}
}

func TestCapacityAndDuplicateErrors(t *testing.T) {
	capErr := &domain.CapacityError{Course: "c1", Max: 2}
	if got, want := capErr.Error(), "course c1 is at capacity (max: 2)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	dupErr := &domain.DuplicateError{What: "learning access", ID: "s1"}
	if got, want := dupErr.Error(), "learning access for student s1 already exists"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	for _, err := range []error{capErr, dupErr, domain.Invalid("bad %s", "input")} {
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%v should match ErrValidation", err)
		}
	}
}

func TestConsumerError_Unwrap(t *testing.T) {
	cause := &domain.CapacityError{Course: "c1", Max: 1}
	err := error(&domain.ConsumerError{Event: "x", Err: cause})

	var capErr *domain.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("errors.As(CapacityError) = false for %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("ConsumerError should expose the cause's kind")
	}
}
