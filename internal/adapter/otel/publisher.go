package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/busops/internal/domain"
)

// TracingPublisher decorates a domain.EventPublisher with a span per
// lifecycle event and a counter of published events by outcome.
type TracingPublisher struct {
	next      domain.EventPublisher
	tracer    trace.Tracer
	published metric.Int64Counter
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) *TracingPublisher {
	// On error the SDK still hands back a usable no-op instrument.
	published, _ := otel.Meter(instrumentationName).Int64Counter("busops.tenant_events.published",
		metric.WithDescription("Tenant lifecycle events handed to the publisher"),
		metric.WithUnit("{event}"),
	)
	return &TracingPublisher{
		next:      next,
		tracer:    otel.Tracer(instrumentationName),
		published: published,
	}
}

func (p *TracingPublisher) Publish(ctx context.Context, event domain.LifecycleEvent, tenant domain.Tenant) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			attribute.String("event.type", string(event)),
			attribute.String("tenant.id", tenant.ID),
			attribute.String("tenant.status", string(tenant.Status)),
		),
	)
	defer span.End()

	outcome := "ok"
	err := p.next.Publish(ctx, event, tenant)
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	p.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", string(event)),
		attribute.String("outcome", outcome),
	))
	return err
}
