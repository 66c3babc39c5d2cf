package domain

import (
	"strings"
	"time"
)

// TenantStatus represents the onboarding state of a tenant.
type TenantStatus string

const (
	TenantPending   TenantStatus = "pending"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// Valid reports whether s is a known tenant status.
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantPending, TenantActive, TenantSuspended:
		return true
	}
	return false
}

// TenantEvent represents an administrative action that triggers a state transition.
type TenantEvent string

const (
	EventApprove TenantEvent = "approve"
	EventReject  TenantEvent = "reject"
	EventSuspend TenantEvent = "suspend"
)

// TenantTransition defines a valid state change: an event moves a tenant from Src to Dst.
type TenantTransition struct {
	Event TenantEvent
	Src   TenantStatus
	Dst   TenantStatus
}

// TenantTransitions defines all valid state changes in the onboarding lifecycle.
// Deletion is not listed: it removes the record from any state.
var TenantTransitions = []TenantTransition{
	{Event: EventApprove, Src: TenantPending, Dst: TenantActive},
	{Event: EventReject, Src: TenantPending, Dst: TenantSuspended},
	{Event: EventSuspend, Src: TenantActive, Dst: TenantSuspended},
}

// Tenant is a bus-operating company onboarded to the platform.
type Tenant struct {
	ID              string
	BrandName       string
	TaxID           string
	ContactPhone    string
	ContactEmail    string
	Address         string
	OperatorName    string
	OperatorContact string
	Status          TenantStatus
	RouteCount      int
	BusCount        int
	OperatorCount   int
	Revenue         string
	RegisteredAt    time.Time
	JoinedAt        time.Time // zero until the tenant is approved
	UpdatedAt       time.Time
}

// Joined reports whether the tenant has ever been approved.
func (t Tenant) Joined() bool {
	return !t.JoinedAt.IsZero()
}

// TenantRegistration carries the fields a company submits when applying.
type TenantRegistration struct {
	BrandName       string
	TaxID           string
	ContactPhone    string
	ContactEmail    string
	Address         string
	OperatorName    string
	OperatorContact string
}

// Validate checks that every required field is present.
func (r TenantRegistration) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"brand_name", r.BrandName},
		{"tax_id", r.TaxID},
		{"contact_phone", r.ContactPhone},
		{"contact_email", r.ContactEmail},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "is required"}
		}
	}
	return nil
}

// NewTenant creates a tenant in the initial "pending" state.
func NewTenant(id string, reg TenantRegistration, now time.Time) Tenant {
	return Tenant{
		ID:              id,
		BrandName:       strings.TrimSpace(reg.BrandName),
		TaxID:           strings.TrimSpace(reg.TaxID),
		ContactPhone:    strings.TrimSpace(reg.ContactPhone),
		ContactEmail:    strings.TrimSpace(reg.ContactEmail),
		Address:         reg.Address,
		OperatorName:    reg.OperatorName,
		OperatorContact: reg.OperatorContact,
		Status:          TenantPending,
		RegisteredAt:    now,
		UpdatedAt:       now,
	}
}
