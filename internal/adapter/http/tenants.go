package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/domain"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID              string   `json:"id" doc:"Unique identifier"`
	BrandName       string   `json:"brand_name" doc:"Company brand name"`
	TaxID           string   `json:"tax_id" doc:"Tax identification number"`
	ContactPhone    string   `json:"contact_phone"`
	ContactEmail    string   `json:"contact_email"`
	Address         string   `json:"address,omitempty"`
	OperatorName    string   `json:"operator_name,omitempty"`
	OperatorContact string   `json:"operator_contact,omitempty"`
	Status          string   `json:"status" doc:"Onboarding state"`
	Actions         []string `json:"actions" doc:"Lifecycle events accepted in the current state"`
	RouteCount      int      `json:"route_count"`
	BusCount        int      `json:"bus_count"`
	OperatorCount   int      `json:"operator_count"`
	Revenue         string   `json:"revenue,omitempty" doc:"Display string, not a computed value"`
	RegisteredAt    string   `json:"registered_at" doc:"Registration timestamp (RFC 3339)"`
	JoinedAt        string   `json:"joined_at,omitempty" doc:"First approval timestamp (RFC 3339)"`
	UpdatedAt       string   `json:"updated_at" doc:"Last update timestamp (RFC 3339)"`
}

func toTenantResponse(t domain.Tenant, actions []domain.TenantEvent) TenantResponse {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return TenantResponse{
		ID:              t.ID,
		BrandName:       t.BrandName,
		TaxID:           t.TaxID,
		ContactPhone:    t.ContactPhone,
		ContactEmail:    t.ContactEmail,
		Address:         t.Address,
		OperatorName:    t.OperatorName,
		OperatorContact: t.OperatorContact,
		Status:          string(t.Status),
		Actions:         names,
		RouteCount:      t.RouteCount,
		BusCount:        t.BusCount,
		OperatorCount:   t.OperatorCount,
		Revenue:         t.Revenue,
		RegisteredAt:    formatTime(t.RegisteredAt),
		JoinedAt:        formatOptionalTime(t.JoinedAt),
		UpdatedAt:       formatTime(t.UpdatedAt),
	}
}

// --- Register Tenant ---

type RegisterTenantInput struct {
	Body struct {
		BrandName       string `json:"brand_name" minLength:"1" maxLength:"255" doc:"Company brand name"`
		TaxID           string `json:"tax_id" minLength:"1" maxLength:"64" doc:"Tax identification number"`
		ContactPhone    string `json:"contact_phone" minLength:"1" maxLength:"64"`
		ContactEmail    string `json:"contact_email" format:"email" doc:"Contact e-mail address"`
		Address         string `json:"address,omitempty" maxLength:"512"`
		OperatorName    string `json:"operator_name,omitempty" maxLength:"255"`
		OperatorContact string `json:"operator_contact,omitempty" maxLength:"255"`
	}
}

type TenantOutput struct {
	Body TenantResponse
}

// --- Get / transition / delete ---

type TenantIDInput struct {
	ID string `path:"id" doc:"Tenant ID"`
}

// --- List Tenants ---

type ListTenantsInput struct {
	Status string `query:"status" required:"false" doc:"Filter by status (pending, active, suspended)"`
}

type ListTenantsOutput struct {
	Body []TenantResponse
}

func registerTenants(api huma.API, svc *app.TenantRegistry) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-tenant",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenants",
		Summary:       "Register a company for onboarding",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterTenantInput) (*TenantOutput, error) {
		tenant, err := svc.Register(ctx, domain.TenantRegistration{
			BrandName:       input.Body.BrandName,
			TaxID:           input.Body.TaxID,
			ContactPhone:    input.Body.ContactPhone,
			ContactEmail:    input.Body.ContactEmail,
			Address:         input.Body.Address,
			OperatorName:    input.Body.OperatorName,
			OperatorContact: input.Body.OperatorContact,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TenantOutput{Body: toTenantResponse(tenant, svc.Actions(tenant.Status))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Get a tenant by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TenantIDInput) (*TenantOutput, error) {
		tenant, err := svc.Get(input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TenantOutput{Body: toTenantResponse(tenant, svc.Actions(tenant.Status))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants in registration order",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		var status *domain.TenantStatus
		if input.Status != "" {
			s := domain.TenantStatus(input.Status)
			if !s.Valid() {
				return nil, toHumaError(&domain.ValidationError{
					Field:  "status",
					Reason: fmt.Sprintf("unknown tenant status %q", input.Status),
				})
			}
			status = &s
		}

		tenants := svc.List(status)
		resp := make([]TenantResponse, len(tenants))
		for i, t := range tenants {
			resp[i] = toTenantResponse(t, svc.Actions(t.Status))
		}
		return &ListTenantsOutput{Body: resp}, nil
	})

	transitions := []struct {
		event   domain.TenantEvent
		summary string
		apply   func(context.Context, string) (domain.Tenant, error)
	}{
		{domain.EventApprove, "Approve a pending tenant", svc.Approve},
		{domain.EventReject, "Reject a pending tenant", svc.Reject},
		{domain.EventSuspend, "Suspend an active tenant", svc.Suspend},
	}
	for _, tr := range transitions {
		huma.Register(api, huma.Operation{
			OperationID: string(tr.event) + "-tenant",
			Method:      http.MethodPost,
			Path:        "/api/v1/tenants/{id}/" + string(tr.event),
			Summary:     tr.summary,
			Tags:        []string{"Tenants"},
		}, func(ctx context.Context, input *TenantIDInput) (*TenantOutput, error) {
			tenant, err := tr.apply(ctx, input.ID)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &TenantOutput{Body: toTenantResponse(tenant, svc.Actions(tenant.Status))}, nil
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "delete-tenant",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Remove a tenant in any state",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TenantIDInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})
}
