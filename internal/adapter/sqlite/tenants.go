package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/neomorfeo/busops/internal/domain"
)

// Compile-time check: TenantStore implements domain.SnapshotStore.
var _ domain.SnapshotStore[domain.Tenant] = (*TenantStore)(nil)

// TenantStore persists the tenant registry snapshot.
type TenantStore struct {
	db *sql.DB
}

const insertTenant = `INSERT INTO tenants (
	position, id, brand_name, tax_id, contact_phone, contact_email, address,
	operator_name, operator_contact, status, route_count, bus_count,
	operator_count, revenue, registered_at, joined_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *TenantStore) Save(ctx context.Context, tenants []domain.Tenant) error {
	rows := make([][]any, len(tenants))
	for i, t := range tenants {
		rows[i] = []any{
			t.ID, t.BrandName, t.TaxID, t.ContactPhone, t.ContactEmail, t.Address,
			t.OperatorName, t.OperatorContact, string(t.Status), t.RouteCount, t.BusCount,
			t.OperatorCount, t.Revenue, formatTime(t.RegisteredAt), nullableTime(t.JoinedAt),
			formatTime(t.UpdatedAt),
		}
	}
	return replaceAll(ctx, s.db, "tenants", insertTenant, rows)
}

func (s *TenantStore) Load(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand_name, tax_id, contact_phone, contact_email, address,
		        operator_name, operator_contact, status, route_count, bus_count,
		        operator_count, revenue, registered_at, joined_at, updated_at
		 FROM tenants ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func scanTenant(rows *sql.Rows) (domain.Tenant, error) {
	var t domain.Tenant
	var status, registeredAt, updatedAt string
	var joinedAt sql.NullString

	err := rows.Scan(&t.ID, &t.BrandName, &t.TaxID, &t.ContactPhone, &t.ContactEmail, &t.Address,
		&t.OperatorName, &t.OperatorContact, &status, &t.RouteCount, &t.BusCount,
		&t.OperatorCount, &t.Revenue, &registeredAt, &joinedAt, &updatedAt)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("scanning tenant row: %w", err)
	}

	t.Status = domain.TenantStatus(status)
	if t.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return domain.Tenant{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Tenant{}, err
	}
	if joinedAt.Valid {
		if t.JoinedAt, err = parseTime(joinedAt.String); err != nil {
			return domain.Tenant{}, err
		}
	}

	return t, nil
}
