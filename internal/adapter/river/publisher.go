package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/busops/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// TenantEventArgs carries a tenant lifecycle event to the job queue.
// It snapshots the tenant at publish time so the worker never reads the store.
type TenantEventArgs struct {
	Event     string `json:"event"`
	TenantID  string `json:"tenant_id"`
	BrandName string `json:"brand_name"`
	TaxID     string `json:"tax_id"`
	Status    string `json:"status"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (TenantEventArgs) Kind() string { return "tenant.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a tenant lifecycle event as an async job.
func (p *Publisher) Publish(ctx context.Context, event domain.LifecycleEvent, tenant domain.Tenant) error {
	_, err := p.client.Insert(ctx, TenantEventArgs{
		Event:     string(event),
		TenantID:  tenant.ID,
		BrandName: tenant.BrandName,
		TaxID:     tenant.TaxID,
		Status:    string(tenant.Status),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing tenant event job: %w", err)
	}
	return nil
}
