package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the kind shared by every "record does not exist" error.
var ErrNotFound = errors.New("not found")

// Sentinel errors for simple conditions without extra context.
var (
	ErrTenantNotFound = fmt.Errorf("tenant %w", ErrNotFound)
	ErrRouteNotFound  = fmt.Errorf("route %w", ErrNotFound)
)

// ValidationError is returned when input to a create operation is malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   TenantEvent
	Current TenantStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// InvariantViolationError is returned when a ticket delta would break the
// inventory of a route.
type InvariantViolationError struct {
	RouteID string
	Delta   int
	Sold    int
	Total   int
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("route %s: applying %+d to %d sold tickets leaves inventory outside [0, %d]",
		e.RouteID, e.Delta, e.Sold, e.Total)
}
