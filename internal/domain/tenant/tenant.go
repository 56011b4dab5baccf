// Package tenant models organizations using the platform.
package tenant

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// Lifecycle events accepted by a tenant.
const (
	EventActivate   = "activate"
	EventSuspend    = "suspend"
	EventDeactivate = "deactivate"
)

var allStatuses = []Status{StatusPending, StatusActive, StatusInactive, StatusSuspended}

// Transitions defines all valid state changes in the tenant lifecycle. It is
// the source of truth for the lifecycle validator.
// Activate is valid from every state except active, suspend from every state
// except suspended, and deactivate from every state.
var Transitions = buildTransitions()

func buildTransitions() domain.Transitions {
	var out domain.Transitions
	for _, src := range allStatuses {
		if src != StatusActive {
			out = append(out, domain.Transition{Event: EventActivate, Src: string(src), Dst: string(StatusActive)})
		}
	}
	for _, src := range allStatuses {
		if src != StatusSuspended {
			out = append(out, domain.Transition{Event: EventSuspend, Src: string(src), Dst: string(StatusSuspended)})
		}
	}
	for _, src := range allStatuses {
		out = append(out, domain.Transition{Event: EventDeactivate, Src: string(src), Dst: string(StatusInactive)})
	}
	return out
}

const (
	nameMinLength  = 3
	nameMaxLength  = 255
	phoneMaxLength = 20
)

// Tenant is the aggregate root for an isolated organization.
type Tenant struct {
	domain.EventRecorder

	id           ID
	name         string
	slug         Slug
	contactEmail ContactEmail
	contactPhone *string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a tenant in the pending state and records a Created event.
func New(id ID, name string, slug Slug, email ContactEmail, phone *string) (*Tenant, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &Tenant{
		id:           id,
		name:         name,
		slug:         slug,
		contactEmail: email,
		contactPhone: phone,
		status:       StatusPending,
		createdAt:    now,
		updatedAt:    now,
	}
	t.Record(Created{
		TenantID: id,
		Name:     name,
		Slug:     slug,
		At:       now,
	})
	return t, nil
}

// Reconstitute rebuilds a tenant from storage without recording events.
func Reconstitute(id ID, name string, slug Slug, email ContactEmail, phone *string, status Status, createdAt, updatedAt time.Time) *Tenant {
	return &Tenant{
		id:           id,
		name:         name,
		slug:         slug,
		contactEmail: email,
		contactPhone: phone,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Activate moves the tenant to active. It fails if the tenant already is.
func (t *Tenant) Activate() error {
	if t.status == StatusActive {
		return t.RejectionFor(EventActivate)
	}
	t.MoveTo(StatusActive)
	return nil
}

// Suspend moves the tenant to suspended. It fails if the tenant already is.
func (t *Tenant) Suspend() error {
	if t.status == StatusSuspended {
		return t.RejectionFor(EventSuspend)
	}
	t.MoveTo(StatusSuspended)
	return nil
}

// Deactivate moves the tenant to inactive from any state.
func (t *Tenant) Deactivate() {
	t.MoveTo(StatusInactive)
}

// MoveTo sets the status the lifecycle table resolved for an event.
func (t *Tenant) MoveTo(dst Status) {
	t.status = dst
	t.touch()
}

// RejectionFor explains why event cannot fire from the current status.
func (t *Tenant) RejectionFor(event string) error {
	err := &domain.TransitionError{Event: event, Current: string(t.status)}
	switch {
	case event == EventActivate && t.status == StatusActive:
		err.Reason = "tenant is already active"
	case event == EventSuspend && t.status == StatusSuspended:
		err.Reason = "tenant is already suspended"
	}
	return err
}

// UpdateInfo replaces the mutable contact details.
func (t *Tenant) UpdateInfo(name string, email ContactEmail, phone *string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	t.name = name
	t.contactEmail = email
	t.contactPhone = phone
	t.touch()
	return nil
}

// CanAccessPlatform is true only while the tenant is active.
func (t *Tenant) CanAccessPlatform() bool {
	return t.status.CanAccessPlatform()
}

func (t *Tenant) touch() {
	t.updatedAt = time.Now().UTC()
}

func (t *Tenant) ID() ID                     { return t.id }
func (t *Tenant) Name() string               { return t.name }
func (t *Tenant) Slug() Slug                 { return t.slug }
func (t *Tenant) ContactEmail() ContactEmail { return t.contactEmail }
func (t *Tenant) ContactPhone() *string      { return t.contactPhone }
func (t *Tenant) Status() Status             { return t.status }
func (t *Tenant) CreatedAt() time.Time       { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time       { return t.updatedAt }

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("tenant name cannot be empty")
	}
	n := utf8.RuneCountInString(name)
	if n < nameMinLength {
		return domain.Invalid("tenant name must be at least %d characters long", nameMinLength)
	}
	if n > nameMaxLength {
		return domain.Invalid("tenant name cannot exceed %d characters", nameMaxLength)
	}
	return nil
}

func validatePhone(phone *string) error {
	if phone != nil && len(*phone) > phoneMaxLength {
		return domain.Invalid("contact phone cannot exceed %d characters", phoneMaxLength)
	}
	return nil
}
