package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/juju/clock"
)

// DefaultStatusInterval is how often route statuses are recomputed.
const DefaultStatusInterval = time.Minute

// RouteStatusScheduler periodically refreshes the cached status of every
// route from the clock.
type RouteStatusScheduler struct {
	routes   *RouteRegistry
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

// NewRouteStatusScheduler creates a scheduler ticking every interval
// (DefaultStatusInterval when zero or negative).
func NewRouteStatusScheduler(routes *RouteRegistry, clk clock.Clock, interval time.Duration, logger *slog.Logger) *RouteStatusScheduler {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteStatusScheduler{
		routes:   routes,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the period between ticks.
func (s *RouteStatusScheduler) Interval() time.Duration {
	return s.interval
}

// Tick recomputes all route statuses once and returns how many were written.
func (s *RouteStatusScheduler) Tick(ctx context.Context) (int, error) {
	changed, err := s.routes.RecomputeStatuses(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.InfoContext(ctx, "route statuses refreshed", "changed", changed)
	}
	return changed, nil
}

// Run ticks immediately and then every interval until ctx is cancelled.
// A failed tick is logged and retried on the next one.
func (s *RouteStatusScheduler) Run(ctx context.Context) error {
	timer := s.clock.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-timer.Chan():
			if _, err := s.Tick(ctx); err != nil {
				s.logger.ErrorContext(ctx, "refreshing route statuses", "error", err)
			}
			timer.Reset(s.interval)
		}
	}
}
