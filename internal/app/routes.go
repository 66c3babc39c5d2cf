package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/neomorfeo/busops/internal/domain"
)

// maxDisplayIDAttempts bounds the random draws for a free display id.
const maxDisplayIDAttempts = 16

// errDisplayIDsExhausted is returned when no free display id was drawn.
var errDisplayIDsExhausted = errors.New("no free route display id after repeated draws")

// RouteRegistry owns route records, their ticket inventory and their
// cached display status.
type RouteRegistry struct {
	store    domain.SnapshotStore[domain.Route]
	clock    clock.Clock
	location *time.Location
	logger   *slog.Logger

	mu     sync.RWMutex
	routes []domain.Route // creation order
}

// NewRouteRegistry creates a registry. Departure dates and times are
// interpreted in loc (UTC when nil).
func NewRouteRegistry(store domain.SnapshotStore[domain.Route], clk clock.Clock, loc *time.Location, logger *slog.Logger) *RouteRegistry {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteRegistry{
		store:    store,
		clock:    clk,
		location: loc,
		logger:   logger,
	}
}

// Load replaces the in-memory records with the persisted snapshot.
func (r *RouteRegistry) Load(ctx context.Context) error {
	routes, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading routes: %w", err)
	}
	for i, route := range routes {
		if err := route.CheckInvariants(); err != nil {
			return fmt.Errorf("loading routes: %w", err)
		}
		// The store keeps only the UTC offset; calendar days are counted
		// in the configured zone.
		routes[i].DepartureAt = route.DepartureAt.In(r.location)
		routes[i].ArrivalAt = route.ArrivalAt.In(r.location)
	}

	r.mu.Lock()
	r.routes = routes
	r.mu.Unlock()
	return nil
}

// Create schedules a new route with a full, unsold inventory.
func (r *RouteRegistry) Create(ctx context.Context, spec domain.RouteSpec) (domain.Route, error) {
	if err := spec.Validate(); err != nil {
		return domain.Route{}, err
	}
	departure, err := spec.Departure(r.location)
	if err != nil {
		return domain.Route{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	displayID, err := r.freeDisplayID()
	if err != nil {
		return domain.Route{}, fmt.Errorf("allocating display id: %w", err)
	}

	route := domain.NewRoute(newID(), displayID, spec, departure, r.clock.Now())
	if err := route.CheckInvariants(); err != nil {
		return domain.Route{}, fmt.Errorf("creating route: %w", err)
	}

	next := append(slices.Clone(r.routes), route)
	if err := r.save(ctx, next); err != nil {
		return domain.Route{}, err
	}

	r.logger.InfoContext(ctx, "route created",
		"route_id", route.ID,
		"display_id", route.DisplayID,
		"departure", route.DepartureAt,
		"arrival", route.ArrivalAt,
		"status", route.Status,
	)
	return route, nil
}

// Select marks the route as the only selected one in the working set.
func (r *RouteRegistry) Select(ctx context.Context, id string) (domain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Route{}, domain.ErrRouteNotFound
	}

	next := slices.Clone(r.routes)
	for j := range next {
		next[j].Selected = j == i
	}
	if err := r.save(ctx, next); err != nil {
		return domain.Route{}, err
	}
	return next[i], nil
}

// Get returns a route by its identifier.
func (r *RouteRegistry) Get(id string) (domain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Route{}, domain.ErrRouteNotFound
	}
	return r.routes[i], nil
}

// List returns routes in creation order, optionally filtered by status.
func (r *RouteRegistry) List(filter domain.RouteFilter) []domain.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Route, 0, len(r.routes))
	for _, route := range r.routes {
		if filter.Status == nil || route.Status == *filter.Status {
			out = append(out, route)
		}
	}
	return out
}

// ApplyTicketDelta adjusts the sold tickets of a route by delta, keeping
// the available count in step. Deltas that would oversell the route or
// drive sales negative are rejected and leave the route unchanged.
func (r *RouteRegistry) ApplyTicketDelta(ctx context.Context, id string, delta int) (domain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Route{}, domain.ErrRouteNotFound
	}

	route := r.routes[i]
	if err := route.ApplyTicketDelta(delta); err != nil {
		return domain.Route{}, err
	}
	route.UpdatedAt = r.clock.Now()

	next := slices.Clone(r.routes)
	next[i] = route
	if err := r.save(ctx, next); err != nil {
		return domain.Route{}, err
	}
	return route, nil
}

// Delete removes a route; it is no longer recomputed.
func (r *RouteRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrRouteNotFound
	}

	next := slices.Delete(slices.Clone(r.routes), i, i+1)
	if err := r.save(ctx, next); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "route deleted", "route_id", id)
	return nil
}

// RecomputeStatuses derives the status of every route at now and stores
// only the ones that changed. Passed routes and routes with an explicit
// status are skipped. It returns the number of routes written.
func (r *RouteRegistry) RecomputeStatuses(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next []domain.Route
	changed := 0
	for i, route := range r.routes {
		if route.StatusPinned || route.Status == domain.RoutePassed {
			continue
		}
		status := domain.DeriveStatus(now, route.DepartureAt, route.ArrivalAt)
		if status == route.Status {
			continue
		}
		if next == nil {
			next = slices.Clone(r.routes)
		}
		r.logger.DebugContext(ctx, "route status changed",
			"route_id", route.ID,
			"from", route.Status,
			"to", status,
		)
		next[i].Status = status
		next[i].UpdatedAt = now
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, next); err != nil {
		return 0, err
	}
	return changed, nil
}

// save persists next and installs it. Callers hold r.mu.
func (r *RouteRegistry) save(ctx context.Context, next []domain.Route) error {
	if err := r.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving routes: %w", err)
	}
	r.routes = next
	return nil
}

// freeDisplayID draws display ids until one is unused. Callers hold r.mu.
func (r *RouteRegistry) freeDisplayID() (string, error) {
	for range maxDisplayIDAttempts {
		id, err := newDisplayID()
		if err != nil {
			return "", err
		}
		taken := slices.ContainsFunc(r.routes, func(route domain.Route) bool { return route.DisplayID == id })
		if !taken {
			return id, nil
		}
	}
	return "", errDisplayIDsExhausted
}

func (r *RouteRegistry) indexOf(id string) int {
	return slices.IndexFunc(r.routes, func(route domain.Route) bool { return route.ID == id })
}
