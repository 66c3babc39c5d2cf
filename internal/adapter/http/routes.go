package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/domain"
)

// RouteResponse is the API representation of a route.
type RouteResponse struct {
	ID               string             `json:"id"`
	DisplayID        string             `json:"display_id" doc:"Six-digit human-facing number"`
	From             string             `json:"from"`
	To               string             `json:"to"`
	SideNumber       string             `json:"side_number"`
	ETAHours         int                `json:"eta_hours"`
	DepartureAt      string             `json:"departure_at" doc:"Departure (RFC 3339)"`
	ArrivalAt        string             `json:"arrival_at" doc:"Departure plus ETA (RFC 3339)"`
	DistanceKm       int                `json:"distance_km"`
	Price            int64              `json:"price"`
	Status           string             `json:"status"`
	TotalTickets     int                `json:"total_tickets"`
	TicketsSold      int                `json:"tickets_sold"`
	TicketsAvailable int                `json:"tickets_available"`
	Selected         bool               `json:"selected"`
	Drivers          []domain.Contact   `json:"drivers"`
	Vendors          []domain.Contact   `json:"vendors"`
	Passengers       []domain.Passenger `json:"passengers"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

func toRouteResponse(r domain.Route) RouteResponse {
	return RouteResponse{
		ID:               r.ID,
		DisplayID:        r.DisplayID,
		From:             r.From,
		To:               r.To,
		SideNumber:       r.SideNumber,
		ETAHours:         r.ETAHours,
		DepartureAt:      formatTime(r.DepartureAt),
		ArrivalAt:        formatTime(r.ArrivalAt),
		DistanceKm:       r.DistanceKm,
		Price:            r.Price,
		Status:           string(r.Status),
		TotalTickets:     r.TotalTickets,
		TicketsSold:      r.TicketsSold,
		TicketsAvailable: r.TicketsAvailable,
		Selected:         r.Selected,
		Drivers:          nonNil(r.Drivers),
		Vendors:          nonNil(r.Vendors),
		Passengers:       nonNil(r.Passengers),
		CreatedAt:        formatTime(r.CreatedAt),
		UpdatedAt:        formatTime(r.UpdatedAt),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// --- Create Route ---

type CreateRouteInput struct {
	Body struct {
		From          string             `json:"from" minLength:"1" maxLength:"255"`
		To            string             `json:"to" minLength:"1" maxLength:"255"`
		SideNumber    string             `json:"side_number" pattern:"^[0-9]{4}$" doc:"Four-digit bus side number"`
		ETAHours      int                `json:"eta_hours" minimum:"1" maximum:"168" doc:"Travel time in whole hours"`
		DepartureDate string             `json:"departure_date" pattern:"^[0-9]{4}-[0-9]{2}-[0-9]{2}$" doc:"YYYY-MM-DD"`
		DepartureTime string             `json:"departure_time" pattern:"^[0-9]{2}:[0-9]{2}$" doc:"HH:MM, 24-hour"`
		DistanceKm    int                `json:"distance_km,omitempty" minimum:"0"`
		Price         int64              `json:"price,omitempty" minimum:"0"`
		TotalTickets  int                `json:"total_tickets" minimum:"26" doc:"Seats on the bus; the console only manages coaches of 26 seats or more"`
		Status        string             `json:"status,omitempty" doc:"Explicit status; pins the route against recomputation"`
		Drivers       []domain.Contact   `json:"drivers,omitempty"`
		Vendors       []domain.Contact   `json:"vendors,omitempty"`
		Passengers    []domain.Passenger `json:"passengers,omitempty"`
	}
}

type RouteOutput struct {
	Body RouteResponse
}

type RouteIDInput struct {
	ID string `path:"id" doc:"Route ID"`
}

type ListRoutesInput struct {
	Status string `query:"status" required:"false" doc:"Filter by status"`
}

type ListRoutesOutput struct {
	Body []RouteResponse
}

type TicketDeltaInput struct {
	ID   string `path:"id" doc:"Route ID"`
	Body struct {
		Delta int `json:"delta" doc:"Tickets sold (positive) or returned (negative)"`
	}
}

func registerRoutes(api huma.API, svc *app.RouteRegistry) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-route",
		Method:        http.MethodPost,
		Path:          "/api/v1/routes",
		Summary:       "Create a route",
		Tags:          []string{"Routes"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateRouteInput) (*RouteOutput, error) {
		b := input.Body
		route, err := svc.Create(ctx, domain.RouteSpec{
			From:          b.From,
			To:            b.To,
			SideNumber:    b.SideNumber,
			ETAHours:      b.ETAHours,
			DepartureDate: b.DepartureDate,
			DepartureTime: b.DepartureTime,
			DistanceKm:    b.DistanceKm,
			Price:         b.Price,
			TotalTickets:  b.TotalTickets,
			Status:        domain.RouteStatus(b.Status),
			Drivers:       b.Drivers,
			Vendors:       b.Vendors,
			Passengers:    b.Passengers,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RouteOutput{Body: toRouteResponse(route)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-routes",
		Method:      http.MethodGet,
		Path:        "/api/v1/routes",
		Summary:     "List routes in creation order",
		Tags:        []string{"Routes"},
	}, func(ctx context.Context, input *ListRoutesInput) (*ListRoutesOutput, error) {
		var filter domain.RouteFilter
		if input.Status != "" {
			s := domain.RouteStatus(input.Status)
			if !s.Valid() {
				return nil, toHumaError(&domain.ValidationError{
					Field:  "status",
					Reason: fmt.Sprintf("unknown route status %q", input.Status),
				})
			}
			filter.Status = &s
		}

		routes := svc.List(filter)
		resp := make([]RouteResponse, len(routes))
		for i, r := range routes {
			resp[i] = toRouteResponse(r)
		}
		return &ListRoutesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-route",
		Method:      http.MethodGet,
		Path:        "/api/v1/routes/{id}",
		Summary:     "Get a route by ID",
		Tags:        []string{"Routes"},
	}, func(ctx context.Context, input *RouteIDInput) (*RouteOutput, error) {
		route, err := svc.Get(input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RouteOutput{Body: toRouteResponse(route)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "select-route",
		Method:      http.MethodPost,
		Path:        "/api/v1/routes/{id}/select",
		Summary:     "Make a route the selected one",
		Tags:        []string{"Routes"},
	}, func(ctx context.Context, input *RouteIDInput) (*RouteOutput, error) {
		route, err := svc.Select(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RouteOutput{Body: toRouteResponse(route)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-ticket-delta",
		Method:      http.MethodPost,
		Path:        "/api/v1/routes/{id}/tickets",
		Summary:     "Record sold or returned tickets",
		Tags:        []string{"Routes"},
	}, func(ctx context.Context, input *TicketDeltaInput) (*RouteOutput, error) {
		route, err := svc.ApplyTicketDelta(ctx, input.ID, input.Body.Delta)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RouteOutput{Body: toRouteResponse(route)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-route",
		Method:      http.MethodDelete,
		Path:        "/api/v1/routes/{id}",
		Summary:     "Delete a route",
		Tags:        []string{"Routes"},
	}, func(ctx context.Context, input *RouteIDInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})
}
