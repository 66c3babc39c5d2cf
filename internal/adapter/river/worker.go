package river

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"
)

// TenantEventWorker processes tenant lifecycle jobs. It only logs the event;
// outbound webhooks would hang off here.
type TenantEventWorker struct {
	river.WorkerDefaults[TenantEventArgs]

	logger *slog.Logger
}

// Work processes a single tenant event job.
func (w *TenantEventWorker) Work(ctx context.Context, job *river.Job[TenantEventArgs]) error {
	w.logger.InfoContext(ctx, "processing tenant event",
		"event", job.Args.Event,
		"tenant_id", job.Args.TenantID,
		"brand_name", job.Args.BrandName,
		"status", job.Args.Status,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}

// RouteStatusArgs triggers one recomputation of route statuses.
type RouteStatusArgs struct{}

// Kind returns the unique job type identifier used by River's job routing.
func (RouteStatusArgs) Kind() string { return "route.status_refresh" }

// InsertOpts disables retries; the next periodic run supersedes a failure.
func (RouteStatusArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 1}
}

// StatusTicker recomputes route statuses once.
type StatusTicker interface {
	Tick(ctx context.Context) (int, error)
}

// RouteStatusWorker runs the periodic route status refresh.
type RouteStatusWorker struct {
	river.WorkerDefaults[RouteStatusArgs]

	ticker StatusTicker
	logger *slog.Logger
}

// Work recomputes statuses once.
func (w *RouteStatusWorker) Work(ctx context.Context, job *river.Job[RouteStatusArgs]) error {
	changed, err := w.ticker.Tick(ctx)
	if err != nil {
		return fmt.Errorf("refreshing route statuses: %w", err)
	}
	w.logger.DebugContext(ctx, "route status job done", "changed", changed, "job_id", job.ID)
	return nil
}
