package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/domain"
)

func TestScheduler_Tick(t *testing.T) {
	f := newRouteFixture(t)
	r := f.mustCreate(t, routeSpec())
	sched := app.NewRouteStatusScheduler(f.registry, f.clock, 0, nil)

	if sched.Interval() != app.DefaultStatusInterval {
		t.Errorf("Interval = %v, want %v", sched.Interval(), app.DefaultStatusInterval)
	}

	f.clock.Advance(20 * time.Hour) // 2025-04-21 05:00, on the way
	changed, err := sched.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}

	changed, err = sched.Tick(context.Background())
	if err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if changed != 0 {
		t.Errorf("second Tick changed %d, want 0", changed)
	}

	if got, _ := f.registry.Get(r.ID); got.Status != domain.RouteOnTheWay {
		t.Errorf("Status = %q, want %q", got.Status, domain.RouteOnTheWay)
	}
}

func TestScheduler_TickStoreFailure(t *testing.T) {
	f := newRouteFixture(t)
	r := f.mustCreate(t, routeSpec())
	sched := app.NewRouteStatusScheduler(f.registry, f.clock, time.Minute, nil)

	f.store.failing = errors.New("disk full")
	f.clock.Advance(20 * time.Hour)
	if _, err := sched.Tick(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got, _ := f.registry.Get(r.ID); got.Status != domain.RouteTomorrow {
		t.Errorf("Status = %q, want it unchanged at %q", got.Status, domain.RouteTomorrow)
	}
}

func TestScheduler_Run(t *testing.T) {
	f := newRouteFixture(t)
	spec := routeSpec()
	spec.DepartureDate = "2025-04-25" // five days after epoch
	r := f.mustCreate(t, spec)
	if r.Status != domain.RouteActive {
		t.Fatalf("Status = %q, want %q", r.Status, domain.RouteActive)
	}

	interval := 24 * time.Hour
	sched := app.NewRouteStatusScheduler(f.registry, f.clock, interval, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	// The first tick runs immediately; once it re-arms the timer, advance a day.
	if err := f.clock.WaitAdvance(interval, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}
	// Wait for the second tick to re-arm before inspecting state.
	if err := f.clock.WaitAdvance(0, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}

	if got, _ := f.registry.Get(r.ID); got.Status != domain.RouteFourDaysLeft {
		t.Errorf("Status = %q, want %q", got.Status, domain.RouteFourDaysLeft)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
