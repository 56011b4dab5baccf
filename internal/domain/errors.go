package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the kind of a failure. Typed errors below
// report themselves as one of these through errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConcurrentUpdate = errors.New("aggregate was modified concurrently")
)

// ValidationError is returned when input violates a value-object or
// aggregate invariant. Rule names the violated rule in plain words.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string {
	return e.Rule
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...any) error {
	return &ValidationError{Rule: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a well-formed reference points at nothing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SlugConflictError is returned when a tenant slug is already in use.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q is already in use", e.Slug)
}

func (e *SlugConflictError) Is(target error) bool {
	return target == ErrValidation
}

// EmailConflictError is returned when a student email is already registered.
type EmailConflictError struct {
	Email string
}

func (e *EmailConflictError) Error() string {
	return fmt.Sprintf("email %q is already registered", e.Email)
}

func (e *EmailConflictError) Is(target error) bool {
	return target == ErrValidation
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   string
	Current string
	Reason  string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateError is returned when an aggregate already holds the entry a
// mutation tries to add.
type DuplicateError struct {
	What string
	ID   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s for student %s already exists", e.What, e.ID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrValidation
}

// CapacityError is returned when a course cannot take another student.
type CapacityError struct {
	Course string
	Max    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("course %s is at capacity (max: %d)", e.Course, e.Max)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrValidation
}

// ConsumerError wraps a failure raised by an event consumer during
// delivery. The cause is preserved for errors.Is and errors.As.
type ConsumerError struct {
	Event string
	Err   error
}

func (e *ConsumerError) Error() string {
	return fmt.Sprintf("consumer of %q failed: %v", e.Event, e.Err)
}

func (e *ConsumerError) Unwrap() error {
	return e.Err
}
