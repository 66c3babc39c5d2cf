package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/neomorfeo/busops/internal/domain"
)

// Compile-time check: RouteStore implements domain.SnapshotStore.
var _ domain.SnapshotStore[domain.Route] = (*RouteStore)(nil)

// RouteStore persists the route registry snapshot.
type RouteStore struct {
	db *sql.DB
}

// crew is the JSON document holding the collections copied through untouched.
type crew struct {
	Drivers    []domain.Contact   `json:"drivers,omitempty"`
	Vendors    []domain.Contact   `json:"vendors,omitempty"`
	Passengers []domain.Passenger `json:"passengers,omitempty"`
}

const insertRoute = `INSERT INTO routes (
	position, id, display_id, from_point, to_point, side_number, eta_hours,
	departure_at, arrival_at, distance_km, price, status, status_pinned,
	total_tickets, tickets_sold, tickets_available, selected, crew,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *RouteStore) Save(ctx context.Context, routes []domain.Route) error {
	rows := make([][]any, len(routes))
	for i, r := range routes {
		doc, err := json.Marshal(crew{Drivers: r.Drivers, Vendors: r.Vendors, Passengers: r.Passengers})
		if err != nil {
			return fmt.Errorf("encoding crew of route %s: %w", r.ID, err)
		}
		rows[i] = []any{
			r.ID, r.DisplayID, r.From, r.To, r.SideNumber, r.ETAHours,
			formatTime(r.DepartureAt), formatTime(r.ArrivalAt), r.DistanceKm, r.Price,
			string(r.Status), r.StatusPinned, r.TotalTickets, r.TicketsSold,
			r.TicketsAvailable, r.Selected, string(doc),
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
		}
	}
	return replaceAll(ctx, s.db, "routes", insertRoute, rows)
}

func (s *RouteStore) Load(ctx context.Context) ([]domain.Route, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_id, from_point, to_point, side_number, eta_hours,
		        departure_at, arrival_at, distance_km, price, status, status_pinned,
		        total_tickets, tickets_sold, tickets_available, selected, crew,
		        created_at, updated_at
		 FROM routes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}

	return routes, rows.Err()
}

func scanRoute(rows *sql.Rows) (domain.Route, error) {
	var r domain.Route
	var departure, arrival, status, doc, createdAt, updatedAt string

	err := rows.Scan(&r.ID, &r.DisplayID, &r.From, &r.To, &r.SideNumber, &r.ETAHours,
		&departure, &arrival, &r.DistanceKm, &r.Price, &status, &r.StatusPinned,
		&r.TotalTickets, &r.TicketsSold, &r.TicketsAvailable, &r.Selected, &doc,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Route{}, fmt.Errorf("scanning route row: %w", err)
	}

	r.Status = domain.RouteStatus(status)
	if r.DepartureAt, err = parseTime(departure); err != nil {
		return domain.Route{}, err
	}
	if r.ArrivalAt, err = parseTime(arrival); err != nil {
		return domain.Route{}, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Route{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Route{}, err
	}

	var c crew
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return domain.Route{}, fmt.Errorf("decoding crew of route %s: %w", r.ID, err)
	}
	r.Drivers, r.Vendors, r.Passengers = c.Drivers, c.Vendors, c.Passengers

	return r, nil
}
