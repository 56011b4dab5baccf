package tenant

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// ID identifies a tenant.
type ID string

const maxIDLength = 36

// NewID generates a random tenant identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID validates a tenant identifier.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", domain.Invalid("tenant id cannot be empty")
	}
	if len(s) > maxIDLength {
		return "", domain.Invalid("tenant id cannot exceed %d characters", maxIDLength)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

// Slug is the URL-friendly, globally unique tenant handle.
type Slug string

const (
	slugMinLength = 3
	slugMaxLength = 50
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewSlug trims and lower-cases raw before validating it.
func NewSlug(raw string) (Slug, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return "", domain.Invalid("tenant slug cannot be empty")
	case len(v) < slugMinLength:
		return "", domain.Invalid("tenant slug must be at least %d characters long", slugMinLength)
	case len(v) > slugMaxLength:
		return "", domain.Invalid("tenant slug cannot exceed %d characters", slugMaxLength)
	case !slugPattern.MatchString(v):
		return "", domain.Invalid("tenant slug must contain only lowercase letters, numbers, and hyphens")
	}
	return Slug(v), nil
}

func (s Slug) String() string { return string(s) }

// ContactEmail is the primary contact address of a tenant, stored lower-cased.
type ContactEmail string

// NewContactEmail trims and lower-cases raw and requires a bare address.
func NewContactEmail(raw string) (ContactEmail, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", domain.Invalid("contact email cannot be empty")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", domain.Invalid("invalid email format: %s", v)
	}
	return ContactEmail(v), nil
}

func (e ContactEmail) String() string { return string(e) }

// Status represents the operational state of a tenant.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ParseStatus accepts any casing of a known status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return st, nil
	}
	return "", domain.Invalid("invalid tenant status: %s", s)
}

// CanAccessPlatform is true only for active tenants.
func (s Status) CanAccessPlatform() bool {
	return s == StatusActive
}
