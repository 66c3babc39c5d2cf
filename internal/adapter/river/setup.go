package river

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riversqlite"
	"github.com/riverqueue/river/rivermigrate"
)

// Config selects which workers and periodic jobs Setup registers.
type Config struct {
	// StatusTicker, when set, is driven by a periodic RouteStatusArgs job.
	StatusTicker StatusTicker
	// StatusInterval is the period of the route status job.
	StatusInterval time.Duration
	Logger         *slog.Logger
}

// Setup creates a River client with the workers registered and runs
// River's internal migrations. The caller must call client.Start() to begin
// processing jobs and client.Stop() for graceful shutdown.
func Setup(ctx context.Context, db *sql.DB, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	driver := riversqlite.New(db)

	// Run River's own migrations (creates river_job, river_leader, etc.).
	// These are separate from the app's goose migrations.
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("running river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &TenantEventWorker{logger: logger})

	var periodic []*river.PeriodicJob
	if cfg.StatusTicker != nil {
		if cfg.StatusInterval <= 0 {
			return nil, fmt.Errorf("route status interval must be positive, got %s", cfg.StatusInterval)
		}
		river.AddWorker(workers, &RouteStatusWorker{ticker: cfg.StatusTicker, logger: logger})
		periodic = append(periodic, river.NewPeriodicJob(
			river.PeriodicInterval(cfg.StatusInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return RouteStatusArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		))
	}

	client, err := river.NewClient(driver, &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
		},
		PeriodicJobs: periodic,
		Workers:      workers,
	})
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}

	return client, nil
}
