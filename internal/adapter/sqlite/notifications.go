package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/neomorfeo/busops/internal/domain"
)

// Compile-time check: NotificationStore implements domain.SnapshotStore.
var _ domain.SnapshotStore[domain.Notification] = (*NotificationStore)(nil)

// NotificationStore persists the inbox, newest first.
type NotificationStore struct {
	db *sql.DB
}

const insertNotification = `INSERT INTO notifications (
	position, id, title, message, created_at, type, is_read, tenant_id, redirect
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *NotificationStore) Save(ctx context.Context, items []domain.Notification) error {
	rows := make([][]any, len(items))
	for i, n := range items {
		rows[i] = []any{
			n.ID, n.Title, n.Message, formatTime(n.CreatedAt), string(n.Type),
			n.IsRead, nullableString(n.TenantID), n.Redirect,
		}
	}
	return replaceAll(ctx, s.db, "notifications", insertNotification, rows)
}

func (s *NotificationStore) Load(ctx context.Context) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, message, created_at, type, is_read, tenant_id, redirect
		 FROM notifications ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt, kind string
		var tenantID sql.NullString

		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &createdAt, &kind, &n.IsRead, &tenantID, &n.Redirect); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(kind)
		n.TenantID = tenantID.String

		items = append(items, n)
	}

	return items, rows.Err()
}
