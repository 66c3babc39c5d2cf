package domain

import "context"

// SnapshotStore is the persistence gateway for one registry. Load returns
// the last saved snapshot in its original order; Save replaces it.
type SnapshotStore[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// TransitionValidator decides where a tenant lands after an event.
type TransitionValidator interface {
	Apply(ctx context.Context, current TenantStatus, event TenantEvent) (TenantStatus, error)
	// Available lists the events accepted from current.
	Available(current TenantStatus) []TenantEvent
}

// LifecycleEvent names what happened to a tenant, for outbound integrations.
type LifecycleEvent string

const (
	LifecycleRegistered LifecycleEvent = "registered"
	LifecycleApproved   LifecycleEvent = "approved"
	LifecycleRejected   LifecycleEvent = "rejected"
	LifecycleSuspended  LifecycleEvent = "suspended"
	LifecycleDeleted    LifecycleEvent = "deleted"
)

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event LifecycleEvent, tenant Tenant) error
}
