package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// RouteStatus is the lifecycle label of a route relative to the current time.
type RouteStatus string

const (
	RouteOnTheWay     RouteStatus = "on-the-way"
	RouteTomorrow     RouteStatus = "tomorrow"
	RouteTwoDaysLeft  RouteStatus = "2-days-left"
	RouteFourDaysLeft RouteStatus = "4-days-left"
	RoutePassed       RouteStatus = "passed"
	RouteActive       RouteStatus = "active"
)

// Valid reports whether s is a known route status.
func (s RouteStatus) Valid() bool {
	switch s {
	case RouteOnTheWay, RouteTomorrow, RouteTwoDaysLeft, RouteFourDaysLeft, RoutePassed, RouteActive:
		return true
	}
	return false
}

// Layouts accepted for the departure date and time of a route.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// MaxETAHours caps the travel time of a single route at one week.
const MaxETAHours = 7 * 24

var sideNumberPattern = regexp.MustCompile(`^\d{4}$`)

// Contact is a driver or vendor attached to a route.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Passenger is a ticket holder on a route.
type Passenger struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Seat  int    `json:"seat"`
}

// Route is a single scheduled trip with a fixed ticket inventory.
type Route struct {
	ID               string
	DisplayID        string
	From             string
	To               string
	SideNumber       string
	ETAHours         int
	DepartureAt      time.Time
	ArrivalAt        time.Time
	DistanceKm       int
	Price            int64
	Status           RouteStatus
	StatusPinned     bool // status was supplied explicitly and is never recomputed
	TotalTickets     int
	TicketsSold      int
	TicketsAvailable int
	Selected         bool
	Drivers          []Contact
	Vendors          []Contact
	Passengers       []Passenger
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RouteSpec is the input for creating a route. Arrival is never supplied:
// it is derived from the departure and the ETA.
type RouteSpec struct {
	From          string
	To            string
	SideNumber    string
	ETAHours      int
	DepartureDate string
	DepartureTime string
	DistanceKm    int
	Price         int64
	TotalTickets  int
	Status        RouteStatus // optional authoritative status
	Drivers       []Contact
	Vendors       []Contact
	Passengers    []Passenger
}

// Validate checks the fields that do not depend on a location.
func (s RouteSpec) Validate() error {
	switch {
	case strings.TrimSpace(s.From) == "":
		return &ValidationError{Field: "from", Reason: "is required"}
	case strings.TrimSpace(s.To) == "":
		return &ValidationError{Field: "to", Reason: "is required"}
	case !sideNumberPattern.MatchString(s.SideNumber):
		return &ValidationError{Field: "side_number", Reason: "must be exactly 4 digits"}
	case s.ETAHours < 1:
		return &ValidationError{Field: "eta_hours", Reason: "must be at least 1"}
	case s.ETAHours > MaxETAHours:
		return &ValidationError{Field: "eta_hours", Reason: fmt.Sprintf("must be at most %d", MaxETAHours)}
	case s.TotalTickets < 1:
		return &ValidationError{Field: "total_tickets", Reason: "must be at least 1"}
	case s.DistanceKm < 0:
		return &ValidationError{Field: "distance_km", Reason: "must not be negative"}
	case s.Price < 0:
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	case s.Status != "" && !s.Status.Valid():
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s.Status)}
	}
	return nil
}

// Departure parses the departure date and time in loc.
func (s RouteSpec) Departure(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.DepartureDate+" "+s.DepartureTime, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "departure", Reason: err.Error()}
	}
	return t, nil
}

// NewRoute creates a route with a fresh inventory. The arrival time is the
// departure plus the ETA; the status is the explicit one requested or
// the one derived from now.
func NewRoute(id, displayID string, spec RouteSpec, departure, now time.Time) Route {
	arrival := departure.Add(time.Duration(spec.ETAHours) * time.Hour)

	r := Route{
		ID:               id,
		DisplayID:        displayID,
		From:             strings.TrimSpace(spec.From),
		To:               strings.TrimSpace(spec.To),
		SideNumber:       spec.SideNumber,
		ETAHours:         spec.ETAHours,
		DepartureAt:      departure,
		ArrivalAt:        arrival,
		DistanceKm:       spec.DistanceKm,
		Price:            spec.Price,
		TotalTickets:     spec.TotalTickets,
		TicketsAvailable: spec.TotalTickets,
		Drivers:          slices.Clone(spec.Drivers),
		Vendors:          slices.Clone(spec.Vendors),
		Passengers:       slices.Clone(spec.Passengers),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if spec.Status != "" {
		r.Status = spec.Status
		r.StatusPinned = true
	} else {
		r.Status = DeriveStatus(now, departure, arrival)
	}
	return r
}

// ApplyTicketDelta moves delta tickets from available to sold (or back when
// delta is negative). The route is left untouched if the result would fall
// outside the inventory.
func (r *Route) ApplyTicketDelta(delta int) error {
	sold := r.TicketsSold + delta
	if sold < 0 || sold > r.TotalTickets {
		return &InvariantViolationError{
			RouteID: r.ID,
			Delta:   delta,
			Sold:    r.TicketsSold,
			Total:   r.TotalTickets,
		}
	}
	r.TicketsSold = sold
	r.TicketsAvailable = r.TotalTickets - sold
	return nil
}

// CheckInvariants reports the first broken data invariant of the route.
func (r Route) CheckInvariants() error {
	switch {
	case r.TotalTickets < 1:
		return fmt.Errorf("route %s: total tickets %d is below 1", r.ID, r.TotalTickets)
	case r.TicketsSold+r.TicketsAvailable != r.TotalTickets:
		return fmt.Errorf("route %s: sold %d + available %d != total %d",
			r.ID, r.TicketsSold, r.TicketsAvailable, r.TotalTickets)
	case r.ArrivalAt.Before(r.DepartureAt):
		return fmt.Errorf("route %s: arrival precedes departure", r.ID)
	}
	return nil
}

// DeriveStatus computes the display status of a route at now.
//
// Routes that have arrived are passed, routes between departure and arrival
// are on the way. Otherwise the status depends on the number of calendar
// days between today and the departure day, in the departure's location.
func DeriveStatus(now, departure, arrival time.Time) RouteStatus {
	if now.After(arrival) {
		return RoutePassed
	}
	if !now.Before(departure) {
		return RouteOnTheWay
	}

	switch days := calendarDaysBetween(now, departure); {
	case days == 1:
		return RouteTomorrow
	case days == 2:
		return RouteTwoDaysLeft
	case days == 3 || days == 4:
		return RouteFourDaysLeft
	default:
		return RouteActive
	}
}

// calendarDaysBetween counts midnights crossed going from from's day to to's day.
func calendarDaysBetween(from, to time.Time) int {
	y1, m1, d1 := from.In(to.Location()).Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// RouteFilter holds optional criteria for listing routes.
type RouteFilter struct {
	Status *RouteStatus
}
