package domain

import "context"

// EventBus delivers released domain events to in-process consumers,
// synchronously and in the caller's goroutine.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAll(ctx context.Context, events []Event) error
	PublishEntity(ctx context.Context, source EventSource) error
}

// TransitionValidator checks whether a lifecycle event may fire from the
// current state and returns the destination state.
type TransitionValidator interface {
	Apply(ctx context.Context, current, event string) (string, error)
}

