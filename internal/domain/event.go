package domain

import (
	"sync"
	"time"
)

// Event is an immutable fact recorded by an aggregate. Name is the stable
// routing key ("tenant.created"); Payload is the wire form with fixed
// snake_case field names.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	Payload() map[string]any
}

// EventSource is implemented by aggregates that record events during a
// mutation and hand them over for publishing afterwards.
type EventSource interface {
	ReleaseEvents() []Event
}

// EventRecorder is embedded by aggregates to queue events until release.
type EventRecorder struct {
	mu      sync.Mutex
	pending []Event
}

// Record appends an event to the pending queue.
func (r *EventRecorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, e)
}

// ReleaseEvents returns the pending events in recorded order and clears
// the queue, so each event is handed out exactly once.
func (r *EventRecorder) ReleaseEvents() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// PendingEvents reports how many events are waiting for release.
func (r *EventRecorder) PendingEvents() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// TimeFormat is the wire format for event timestamps.
const TimeFormat = time.RFC3339Nano
