package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// Compile-time check: TracingBus implements domain.EventBus.
var _ domain.EventBus = (*TracingBus)(nil)

// TracingBus wraps a domain.EventBus. Every published event gets a span and
// is counted by name and outcome. Consumer spans nest under the publish span
// because delivery is synchronous.
type TracingBus struct {
	next      domain.EventBus
	tracer    trace.Tracer
	published metric.Int64Counter
}

// NewTracingBus creates a tracing decorator around the given bus.
func NewTracingBus(next domain.EventBus) (*TracingBus, error) {
	counter, err := meter().Int64Counter(
		"coursebridge.events.published",
		metric.WithDescription("Domain events handed to the event bus"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}
	return &TracingBus{
		next:      next,
		tracer:    tracer(),
		published: counter,
	}, nil
}

func (b *TracingBus) Publish(ctx context.Context, event domain.Event) (err error) {
	name := ""
	if event != nil {
		name = event.EventName()
	}
	ctx, span := b.tracer.Start(ctx, "EventBus.Publish",
		trace.WithAttributes(attribute.String("event.name", name)),
	)
	defer func() {
		b.published.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event.name", name),
			attribute.Bool("error", err != nil),
		))
		end(span, err)
	}()

	return b.next.Publish(ctx, event)
}

// PublishAll routes each event through Publish so each one is traced.
func (b *TracingBus) PublishAll(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *TracingBus) PublishEntity(ctx context.Context, source domain.EventSource) (err error) {
	if source == nil {
		return b.next.PublishEntity(ctx, source)
	}
	events := source.ReleaseEvents()

	ctx, span := b.tracer.Start(ctx, "EventBus.PublishEntity",
		trace.WithAttributes(attribute.Int("event.count", len(events))),
	)
	defer func() { end(span, err) }()

	return b.PublishAll(ctx, events)
}
