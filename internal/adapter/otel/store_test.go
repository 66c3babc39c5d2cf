package otel_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	adapter "github.com/neomorfeo/busops/internal/adapter/otel"
	"github.com/neomorfeo/busops/internal/domain"
)

// --- Test tracer setup ---

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

// --- Mock store ---

type mockStore struct {
	items []domain.Notification
	err   error
}

func (m *mockStore) Load(context.Context) ([]domain.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockStore) Save(_ context.Context, items []domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.items = items
	return nil
}

// --- Tests ---

func TestTracingStore_Save_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockStore{}
	store := adapter.NewTracingStore[domain.Notification]("notifications", inner)

	items := []domain.Notification{{ID: "n-1"}, {ID: "n-2"}}
	if err := store.Save(context.Background(), items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "SnapshotStore.Save" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "SnapshotStore.Save")
	}

	assertAttribute(t, spans[0], "store.section", "notifications")
	assertAttribute(t, spans[0], "snapshot.size", "2")

	if len(inner.items) != 2 {
		t.Errorf("inner store got %d items, want 2", len(inner.items))
	}
}

func TestTracingStore_Load_RecordsResultCount(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockStore{items: []domain.Notification{{ID: "n-1"}, {ID: "n-2"}, {ID: "n-3"}}}
	store := adapter.NewTracingStore[domain.Notification]("notifications", inner)

	items, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("got %d items, want 3", len(items))
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "SnapshotStore.Load" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "SnapshotStore.Load")
	}

	assertAttribute(t, spans[0], "result.count", "3")
}

func TestTracingStore_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	boom := errors.New("disk full")
	store := adapter.NewTracingStore[domain.Notification]("notifications", &mockStore{err: boom})

	if err := store.Save(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}

	if len(spans[0].Events) == 0 {
		t.Error("expected error event on span")
	}
}

// assertAttribute checks that a span has an attribute with the given key and string value.
func assertAttribute(t *testing.T, span tracetest.SpanStub, key, want string) {
	t.Helper()
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			got := attr.Value.Emit()
			if got != want {
				t.Errorf("attribute %q = %q, want %q", key, got, want)
			}
			return
		}
	}
	t.Errorf("attribute %q not found on span %q", key, span.Name)
}
