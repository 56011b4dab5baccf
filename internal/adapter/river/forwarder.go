package river

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// EventJobArgs carries a released domain event to the async worker. River
// serializes this as JSON into its job queue table. The payload is the
// event's wire form, so the worker never needs to query the database.
type EventJobArgs struct {
	Event      string          `json:"event"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "domain.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Forwarder is a bus consumer that enqueues every event it receives as a
// River job. It is subscribed after the synchronous consumers, so only
// events whose in-process handling succeeded are forwarded.
type Forwarder struct {
	client *Client
}

// NewForwarder creates a forwarder backed by the given River client.
func NewForwarder(client *Client) *Forwarder {
	return &Forwarder{client: client}
}

// Handle enqueues event as an async job. Its signature matches
// eventbus.Handler.
func (f *Forwarder) Handle(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", event.EventName(), err)
	}

	_, err = f.client.Insert(ctx, EventJobArgs{
		Event:      event.EventName(),
		OccurredAt: event.OccurredAt().UTC().Format(domain.TimeFormat),
		Payload:    payload,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing event job: %w", err)
	}
	return nil
}
