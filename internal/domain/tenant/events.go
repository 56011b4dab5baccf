package tenant

import (
	"encoding/json"
	"time"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// CreatedEventName is the wire name of Created.
const CreatedEventName = "tenant.created"

// Created is recorded when a tenant is registered.
type Created struct {
	TenantID ID
	Name     string
	Slug     Slug
	At       time.Time
}

func (Created) EventName() string       { return CreatedEventName }
func (e Created) OccurredAt() time.Time { return e.At }

func (e Created) Payload() map[string]any {
	return map[string]any{
		"tenant_id":   string(e.TenantID),
		"name":        e.Name,
		"slug":        string(e.Slug),
		"occurred_at": e.At.UTC().Format(domain.TimeFormat),
	}
}

func (e Created) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Payload())
}
