// Package eventbus is the synchronous in-process domain event bus. Consumers
// run in the publisher's goroutine, so a consumer failure is a failure of the
// publishing operation.
package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// Compile-time check: Bus implements domain.EventBus.
var _ domain.EventBus = (*Bus)(nil)

// Handler consumes one delivered event.
type Handler func(ctx context.Context, event domain.Event) error

// UnrecognizedEventError is returned for nil events, events without a name,
// and events whose concrete type does not match a typed consumer.
type UnrecognizedEventError struct {
	Event domain.Event
}

func (e *UnrecognizedEventError) Error() string {
	return fmt.Sprintf("unrecognized event %T", e.Event)
}

// Bus routes events by name to their consumers in registration order.
// Subscriptions are expected at startup; publishing is safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New creates a bus with no consumers.
func New() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// SubscribeName registers handler for every event published under name.
func (b *Bus) SubscribeName(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Subscribe registers a typed consumer for E. The routing key is the name
// reported by E's zero value. A pointer to E is delivered as its value; any
// other type published under that name fails with *UnrecognizedEventError.
func Subscribe[E domain.Event](b *Bus, fn func(ctx context.Context, event E) error) {
	var zero E
	b.SubscribeName(zero.EventName(), func(ctx context.Context, event domain.Event) error {
		switch typed := any(event).(type) {
		case E:
			return fn(ctx, typed)
		case *E:
			if typed != nil {
				return fn(ctx, *typed)
			}
		}
		return &UnrecognizedEventError{Event: event}
	})
}

// Publish delivers event to each of its consumers. The first consumer error
// stops delivery and is returned as a *domain.ConsumerError.
func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	if event == nil || event.EventName() == "" {
		return &UnrecognizedEventError{Event: event}
	}
	name := event.EventName()

	b.mu.RLock()
	handlers := b.handlers[name]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			return &domain.ConsumerError{Event: name, Err: err}
		}
	}
	return nil
}

// PublishAll publishes events in order. Events already delivered when a
// later one fails are not undone.
func (b *Bus) PublishAll(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// PublishEntity releases the source's pending events and publishes them.
func (b *Bus) PublishEntity(ctx context.Context, source domain.EventSource) error {
	if source == nil {
		return fmt.Errorf("publishing entity: nil event source")
	}
	return b.PublishAll(ctx, source.ReleaseEvents())
}

// PublishEntities calls PublishEntity for each source in order.
func (b *Bus) PublishEntities(ctx context.Context, sources ...domain.EventSource) error {
	for _, s := range sources {
		if err := b.PublishEntity(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
