package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/juju/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/neomorfeo/busops/internal/domain"
)

const meterName = "github.com/neomorfeo/busops/internal/app"

// NotificationCenter keeps the administrator inbox, newest first.
type NotificationCenter struct {
	store  domain.SnapshotStore[domain.Notification]
	clock  clock.Clock
	logger *slog.Logger

	missingReads metric.Int64Counter

	mu    sync.RWMutex
	items []domain.Notification
}

// NewNotificationCenter creates an empty inbox backed by store.
// Call Load to restore persisted notifications.
func NewNotificationCenter(store domain.SnapshotStore[domain.Notification], clk clock.Clock, logger *slog.Logger) *NotificationCenter {
	if logger == nil {
		logger = slog.Default()
	}

	counter, err := otel.Meter(meterName).Int64Counter(
		"busops.notifications.mark_read_missing",
		metric.WithDescription("MarkRead calls that referenced an unknown notification"),
	)
	if err != nil {
		counter = noop.Int64Counter{}
	}

	return &NotificationCenter{
		store:        store,
		clock:        clk,
		logger:       logger,
		missingReads: counter,
	}
}

// Load replaces the in-memory inbox with the persisted snapshot.
func (c *NotificationCenter) Load(ctx context.Context) error {
	items, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Push prepends n to the inbox. ID and CreatedAt are assigned when empty
// and IsRead is always reset to false.
func (c *NotificationCenter) Push(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.clock.Now()
	}
	if n.Type == "" {
		n.Type = domain.NotifyGeneral
	}
	n.IsRead = false

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.Notification, 0, len(c.items)+1)
	next = append(next, n)
	next = append(next, c.items...)

	if err := c.store.Save(ctx, next); err != nil {
		return domain.Notification{}, fmt.Errorf("saving notifications: %w", err)
	}
	c.items = next
	return n, nil
}

// MarkRead flags a notification as read. Unknown ids are ignored: they are
// logged and counted so stale references upstream stay visible.
func (c *NotificationCenter) MarkRead(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		c.logger.WarnContext(ctx, "mark read on unknown notification", "notification_id", id)
		c.missingReads.Add(ctx, 1)
		return nil
	}
	if c.items[i].IsRead {
		return nil
	}

	next := slices.Clone(c.items)
	next[i].IsRead = true
	if err := c.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving notifications: %w", err)
	}
	c.items = next
	return nil
}

// MarkAllRead flags every unread notification as read and returns how many changed.
func (c *NotificationCenter) MarkAllRead(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := slices.Clone(c.items)
	changed := 0
	for i := range next {
		if !next[i].IsRead {
			next[i].IsRead = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := c.store.Save(ctx, next); err != nil {
		return 0, fmt.Errorf("saving notifications: %w", err)
	}
	c.items = next
	return changed, nil
}

// All returns every notification, newest first.
func (c *NotificationCenter) All() []domain.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Unread returns the unread notifications, newest first.
func (c *NotificationCenter) Unread() []domain.Notification {
	return c.filter(func(n domain.Notification) bool { return !n.IsRead })
}

// UnreadCount returns the number of unread notifications.
func (c *NotificationCenter) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// ForTenant returns the notifications referencing tenantID, newest first.
func (c *NotificationCenter) ForTenant(tenantID string) []domain.Notification {
	return c.filter(func(n domain.Notification) bool { return n.TenantID == tenantID })
}

func (c *NotificationCenter) filter(keep func(domain.Notification) bool) []domain.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Notification, 0, len(c.items))
	for _, n := range c.items {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
