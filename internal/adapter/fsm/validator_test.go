package fsm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	adapter "github.com/neomorfeo/coursebridge/internal/adapter/fsm"
	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

func TestValidator_AllTransitions(t *testing.T) {
	ctx := context.Background()

	for _, table := range []domain.Transitions{tenant.Transitions, records.EnrollmentTransitions} {
		v := adapter.New(table)
		for _, tr := range table {
			dst, err := v.Apply(ctx, tr.Src, tr.Event)
			if err != nil {
				t.Errorf("Apply(%q, %q) unexpected error: %v", tr.Src, tr.Event, err)
				continue
			}
			if dst != tr.Dst {
				t.Errorf("Apply(%q, %q) = %q, want %q", tr.Src, tr.Event, dst, tr.Dst)
			}
		}
	}
}

func TestValidator_InvalidTransition(t *testing.T) {
	v := adapter.New(records.EnrollmentTransitions)
	ctx := context.Background()

	// Completed is terminal.
	_, err := v.Apply(ctx, string(records.StatusCompleted), records.EventDrop)
	var trErr *domain.TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.Event != records.EventDrop {
		t.Errorf("event = %q, want %q", trErr.Event, records.EventDrop)
	}
	if trErr.Current != string(records.StatusCompleted) {
		t.Errorf("current = %q, want %q", trErr.Current, records.StatusCompleted)
	}
}

func TestValidator_UnknownEvent(t *testing.T) {
	v := adapter.New(tenant.Transitions)

	_, err := v.Apply(context.Background(), string(tenant.StatusPending), "archive")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestValidator_SelfTransition(t *testing.T) {
	v := adapter.New(tenant.Transitions)

	got, err := v.Apply(context.Background(), string(tenant.StatusInactive), tenant.EventDeactivate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != string(tenant.StatusInactive) {
		t.Errorf("got %q, want %q", got, tenant.StatusInactive)
	}
}

func TestValidator_TenantLifecycle(t *testing.T) {
	v := adapter.New(tenant.Transitions)
	ctx := context.Background()

	steps := []struct {
		from  tenant.Status
		event string
		want  tenant.Status
	}{
		{tenant.StatusPending, tenant.EventActivate, tenant.StatusActive},
		{tenant.StatusActive, tenant.EventSuspend, tenant.StatusSuspended},
		{tenant.StatusSuspended, tenant.EventActivate, tenant.StatusActive},
		{tenant.StatusActive, tenant.EventDeactivate, tenant.StatusInactive},
		{tenant.StatusInactive, tenant.EventSuspend, tenant.StatusSuspended},
	}

	for _, step := range steps {
		got, err := v.Apply(ctx, string(step.from), step.event)
		if err != nil {
			t.Fatalf("Apply(%q, %q) error: %v", step.from, step.event, err)
		}
		if got != string(step.want) {
			t.Errorf("Apply(%q, %q) = %q, want %q", step.from, step.event, got, step.want)
		}
	}
}

func TestValidator_RejectsRepeatedActivate(t *testing.T) {
	v := adapter.New(tenant.Transitions)

	_, err := v.Apply(context.Background(), string(tenant.StatusActive), tenant.EventActivate)
	if !errors.As(err, new(*domain.TransitionError)) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
}

func TestValidator_AgreesWithEnrollmentMethods(t *testing.T) {
	v := adapter.New(records.EnrollmentTransitions)
	ctx := context.Background()
	methods := map[string]func(*records.Enrollment) error{
		records.EventComplete:   (*records.Enrollment).Complete,
		records.EventDrop:       (*records.Enrollment).Drop,
		records.EventSuspend:    (*records.Enrollment).Suspend,
		records.EventReactivate: (*records.Enrollment).Reactivate,
	}
	for _, from := range []records.EnrollmentStatus{records.StatusActive, records.StatusCompleted, records.StatusDropped, records.StatusSuspended} {
		for event, method := range methods {
			e := records.ReconstituteEnrollment(records.EnrollmentRecord{Status: from})
			dst, vErr := v.Apply(ctx, string(from), event)
			mErr := method(e)
			if (vErr == nil) != (mErr == nil) {
				t.Errorf("%s from %s: validator error %v, method error %v", event, from, vErr, mErr)
				continue
			}
			if vErr == nil && string(e.Status()) != dst {
				t.Errorf("%s from %s: method moved to %q, validator says %q", event, from, e.Status(), dst)
			}
		}
	}
}

func TestValidator_AgreesWithTenantMethods(t *testing.T) {
	v := adapter.New(tenant.Transitions)
	ctx := context.Background()
	methods := map[string]func(*tenant.Tenant) error{
		tenant.EventActivate:   (*tenant.Tenant).Activate,
		tenant.EventSuspend:    (*tenant.Tenant).Suspend,
		tenant.EventDeactivate: func(tn *tenant.Tenant) error { tn.Deactivate(); return nil },
	}
	for _, from := range []tenant.Status{tenant.StatusPending, tenant.StatusActive, tenant.StatusInactive, tenant.StatusSuspended} {
		for event, method := range methods {
			tn := tenant.Reconstitute(tenant.NewID(), "Acme", "acme", "admin@acme.test", nil, from, time.Now(), time.Now())
			dst, vErr := v.Apply(ctx, string(from), event)
			mErr := method(tn)
			if (vErr == nil) != (mErr == nil) {
				t.Errorf("%s from %s: validator error %v, method error %v", event, from, vErr, mErr)
				continue
			}
			if vErr == nil && string(tn.Status()) != dst {
				t.Errorf("%s from %s: method moved to %q, validator says %q", event, from, tn.Status(), dst)
			}
		}
	}
}
