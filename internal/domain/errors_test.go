package domain_test

import (
	"errors"
	"testing"

	"github.com/neomorfeo/busops/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := &domain.ValidationError{Field: "side_number", Reason: "must be exactly 4 digits"}
	want := "invalid side_number: must be exactly 4 digits"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		Event:   domain.EventSuspend,
		Current: domain.TenantPending,
	}
	want := `event "suspend" is not valid from state "pending"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestInvariantViolationError_Error(t *testing.T) {
	err := &domain.InvariantViolationError{RouteID: "r-1", Delta: 30, Sold: 25, Total: 52}
	want := "route r-1: applying +30 to 25 sold tickets leaves inventory outside [0, 52]"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNotFoundErrors_ShareKind(t *testing.T) {
	for _, err := range []error{domain.ErrTenantNotFound, domain.ErrRouteNotFound} {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", err)
		}
	}
	if errors.Is(domain.ErrTenantNotFound, domain.ErrRouteNotFound) {
		t.Error("tenant and route not-found errors should be distinct")
	}
}
