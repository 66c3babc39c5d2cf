package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/busops/internal/domain"
)

const instrumentationName = "github.com/neomorfeo/busops/internal/adapter/otel"

// TracingStore wraps a domain.SnapshotStore with OpenTelemetry tracing.
// Each call creates a span tagged with the store section and records errors.
type TracingStore[T any] struct {
	section string
	next    domain.SnapshotStore[T]
	tracer  trace.Tracer
}

// NewTracingStore creates a tracing decorator around the given store.
// section names the snapshot (e.g. "tenants") on every span.
func NewTracingStore[T any](section string, next domain.SnapshotStore[T]) *TracingStore[T] {
	return &TracingStore[T]{
		section: section,
		next:    next,
		tracer:  otel.Tracer(instrumentationName),
	}
}

func (s *TracingStore[T]) Load(ctx context.Context) ([]T, error) {
	ctx, span := s.tracer.Start(ctx, "SnapshotStore.Load",
		trace.WithAttributes(attribute.String("store.section", s.section)),
	)
	defer span.End()

	items, err := s.next.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(items)))
	}
	return items, err
}

func (s *TracingStore[T]) Save(ctx context.Context, items []T) error {
	ctx, span := s.tracer.Start(ctx, "SnapshotStore.Save",
		trace.WithAttributes(
			attribute.String("store.section", s.section),
			attribute.Int("snapshot.size", len(items)),
		),
	)
	defer span.End()

	err := s.next.Save(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
