package fsm_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	adapter "github.com/neomorfeo/busops/internal/adapter/fsm"
	"github.com/neomorfeo/busops/internal/domain"
)

func TestValidator_AllTransitions(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	for _, tr := range domain.TenantTransitions {
		dst, err := v.Apply(ctx, tr.Src, tr.Event)
		if err != nil {
			t.Errorf("Apply(%q, %q) unexpected error: %v", tr.Src, tr.Event, err)
			continue
		}
		if dst != tr.Dst {
			t.Errorf("Apply(%q, %q) = %q, want %q", tr.Src, tr.Event, dst, tr.Dst)
		}
	}
}

func TestValidator_InvalidTransitions(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	invalid := []struct {
		from  domain.TenantStatus
		event domain.TenantEvent
	}{
		{domain.TenantActive, domain.EventApprove},
		{domain.TenantSuspended, domain.EventApprove},
		{domain.TenantActive, domain.EventReject},
		{domain.TenantSuspended, domain.EventReject},
		{domain.TenantPending, domain.EventSuspend},
		{domain.TenantSuspended, domain.EventSuspend},
	}

	for _, tc := range invalid {
		_, err := v.Apply(ctx, tc.from, tc.event)
		var trErr *domain.TransitionError
		if !errors.As(err, &trErr) {
			t.Errorf("Apply(%q, %q): expected TransitionError, got %v", tc.from, tc.event, err)
			continue
		}
		if trErr.Event != tc.event {
			t.Errorf("event = %q, want %q", trErr.Event, tc.event)
		}
		if trErr.Current != tc.from {
			t.Errorf("current = %q, want %q", trErr.Current, tc.from)
		}
	}
}

func TestValidator_OnboardingLifecycle(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	steps := []struct {
		from  domain.TenantStatus
		event domain.TenantEvent
		want  domain.TenantStatus
	}{
		{domain.TenantPending, domain.EventApprove, domain.TenantActive},
		{domain.TenantActive, domain.EventSuspend, domain.TenantSuspended},
	}

	for _, step := range steps {
		got, err := v.Apply(ctx, step.from, step.event)
		if err != nil {
			t.Fatalf("Apply(%q, %q) error: %v", step.from, step.event, err)
		}
		if got != step.want {
			t.Errorf("Apply(%q, %q) = %q, want %q", step.from, step.event, got, step.want)
		}
	}
}

func TestValidator_RejectFromPending(t *testing.T) {
	v := adapter.New()

	got, err := v.Apply(context.Background(), domain.TenantPending, domain.EventReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.TenantSuspended {
		t.Errorf("got %q, want %q", got, domain.TenantSuspended)
	}
}

func TestValidator_Available(t *testing.T) {
	v := adapter.New()

	tests := []struct {
		status domain.TenantStatus
		want   []domain.TenantEvent
	}{
		{domain.TenantPending, []domain.TenantEvent{domain.EventApprove, domain.EventReject}},
		{domain.TenantActive, []domain.TenantEvent{domain.EventSuspend}},
		{domain.TenantSuspended, nil},
	}

	for _, tt := range tests {
		got := v.Available(tt.status)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Available(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNewFromTable_MergesSources(t *testing.T) {
	v := adapter.NewFromTable([]domain.TenantTransition{
		{Event: domain.EventSuspend, Src: domain.TenantPending, Dst: domain.TenantSuspended},
		{Event: domain.EventSuspend, Src: domain.TenantActive, Dst: domain.TenantSuspended},
	})

	for _, src := range []domain.TenantStatus{domain.TenantPending, domain.TenantActive} {
		got, err := v.Apply(context.Background(), src, domain.EventSuspend)
		if err != nil {
			t.Fatalf("Apply(%q, suspend): %v", src, err)
		}
		if got != domain.TenantSuspended {
			t.Errorf("Apply(%q, suspend) = %q, want %q", src, got, domain.TenantSuspended)
		}
	}

	if _, err := v.Apply(context.Background(), domain.TenantPending, domain.EventApprove); err == nil {
		t.Error("expected error for an event missing from the table")
	}
}
