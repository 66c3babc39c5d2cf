package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/juju/clock"

	"github.com/neomorfeo/busops/internal/domain"
)

// TenantRegistry owns tenant records and their onboarding lifecycle.
type TenantRegistry struct {
	store     domain.SnapshotStore[domain.Tenant]
	notifier  *NotificationCenter
	validator domain.TransitionValidator
	publisher domain.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger

	mu      sync.RWMutex
	tenants []domain.Tenant // registration order
}

// NewTenantRegistry creates a registry with the given adapters.
// publisher may be nil when no outbound integration is configured.
func NewTenantRegistry(
	store domain.SnapshotStore[domain.Tenant],
	notifier *NotificationCenter,
	validator domain.TransitionValidator,
	publisher domain.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *TenantRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantRegistry{
		store:     store,
		notifier:  notifier,
		validator: validator,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// Load replaces the in-memory records with the persisted snapshot.
func (r *TenantRegistry) Load(ctx context.Context) error {
	tenants, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading tenants: %w", err)
	}

	r.mu.Lock()
	r.tenants = tenants
	r.mu.Unlock()
	return nil
}

// Register records a new pending tenant and announces it to administrators.
func (r *TenantRegistry) Register(ctx context.Context, reg domain.TenantRegistration) (domain.Tenant, error) {
	if err := reg.Validate(); err != nil {
		return domain.Tenant{}, err
	}

	tenant := domain.NewTenant(newID(), reg, r.clock.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(slices.Clone(r.tenants), tenant)
	if err := r.commit(ctx, next, domain.NotifyTenantRegistration, tenant); err != nil {
		return domain.Tenant{}, err
	}

	r.logger.InfoContext(ctx, "tenant registered", "tenant_id", tenant.ID, "brand_name", tenant.BrandName)
	r.publish(ctx, domain.LifecycleRegistered, tenant)
	return tenant, nil
}

// Approve activates a pending tenant and stamps its join date.
func (r *TenantRegistry) Approve(ctx context.Context, id string) (domain.Tenant, error) {
	return r.transition(ctx, id, domain.EventApprove)
}

// Reject moves a pending tenant to suspended without a join date.
func (r *TenantRegistry) Reject(ctx context.Context, id string) (domain.Tenant, error) {
	return r.transition(ctx, id, domain.EventReject)
}

// Suspend deactivates an active tenant. No notification is emitted.
func (r *TenantRegistry) Suspend(ctx context.Context, id string) (domain.Tenant, error) {
	return r.transition(ctx, id, domain.EventSuspend)
}

// Delete permanently removes a tenant in any state.
func (r *TenantRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrTenantNotFound
	}
	tenant := r.tenants[i]

	next := slices.Delete(slices.Clone(r.tenants), i, i+1)
	if err := r.commit(ctx, next, "", tenant); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "tenant deleted", "tenant_id", id)
	r.publish(ctx, domain.LifecycleDeleted, tenant)
	return nil
}

// Get returns a tenant by its identifier.
func (r *TenantRegistry) Get(id string) (domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return r.tenants[i], nil
}

// List returns tenants in registration order, optionally filtered by status.
func (r *TenantRegistry) List(status *domain.TenantStatus) []domain.Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		if status == nil || t.Status == *status {
			out = append(out, t)
		}
	}
	return out
}

// Actions lists the lifecycle events a tenant in status may receive.
func (r *TenantRegistry) Actions(status domain.TenantStatus) []domain.TenantEvent {
	return r.validator.Available(status)
}

// Pending returns tenants awaiting a decision.
func (r *TenantRegistry) Pending() []domain.Tenant { return r.byStatus(domain.TenantPending) }

// Active returns approved tenants.
func (r *TenantRegistry) Active() []domain.Tenant { return r.byStatus(domain.TenantActive) }

// Suspended returns rejected and suspended tenants.
func (r *TenantRegistry) Suspended() []domain.Tenant { return r.byStatus(domain.TenantSuspended) }

func (r *TenantRegistry) byStatus(s domain.TenantStatus) []domain.Tenant {
	return r.List(&s)
}

func (r *TenantRegistry) transition(ctx context.Context, id string, event domain.TenantEvent) (domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	tenant := r.tenants[i]

	newStatus, err := r.validator.Apply(ctx, tenant.Status, event)
	if err != nil {
		return domain.Tenant{}, err
	}

	now := r.clock.Now()
	tenant.Status = newStatus
	tenant.UpdatedAt = now
	if event == domain.EventApprove && !tenant.Joined() {
		tenant.JoinedAt = now
	}

	next := slices.Clone(r.tenants)
	next[i] = tenant

	kind, lifecycle := eventOutcome(event)
	if err := r.commit(ctx, next, kind, tenant); err != nil {
		return domain.Tenant{}, err
	}

	r.logger.InfoContext(ctx, "tenant transitioned",
		"tenant_id", id,
		"event", event,
		"status", newStatus,
	)
	r.publish(ctx, lifecycle, tenant)
	return tenant, nil
}

// commit persists next and, when kind is set, pushes the matching
// notification. A failed push restores the previous snapshot so the
// transition and its notification land together or not at all.
// Callers hold r.mu.
func (r *TenantRegistry) commit(ctx context.Context, next []domain.Tenant, kind domain.NotificationType, tenant domain.Tenant) error {
	if err := r.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving tenants: %w", err)
	}

	if kind != "" {
		if _, err := r.notifier.Push(ctx, domain.TenantNotification(kind, tenant)); err != nil {
			if rbErr := r.store.Save(ctx, r.tenants); rbErr != nil {
				r.logger.ErrorContext(ctx, "restoring tenant snapshot", "tenant_id", tenant.ID, "error", rbErr)
			}
			return fmt.Errorf("pushing %s notification: %w", kind, err)
		}
	}

	r.tenants = next
	return nil
}

// publish forwards the event to the outbound integration. Failures are
// logged only; the local state is already authoritative.
func (r *TenantRegistry) publish(ctx context.Context, event domain.LifecycleEvent, tenant domain.Tenant) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event, tenant); err != nil {
		r.logger.WarnContext(ctx, "publishing tenant event",
			"event", event,
			"tenant_id", tenant.ID,
			"error", err,
		)
	}
}

func (r *TenantRegistry) indexOf(id string) int {
	return slices.IndexFunc(r.tenants, func(t domain.Tenant) bool { return t.ID == id })
}

func eventOutcome(event domain.TenantEvent) (domain.NotificationType, domain.LifecycleEvent) {
	switch event {
	case domain.EventApprove:
		return domain.NotifyTenantApproved, domain.LifecycleApproved
	case domain.EventReject:
		return domain.NotifyTenantRejected, domain.LifecycleRejected
	default:
		return "", domain.LifecycleSuspended
	}
}
