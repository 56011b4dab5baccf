package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID           string  `json:"id" doc:"Unique identifier"`
	Name         string  `json:"name" doc:"Display name"`
	Slug         string  `json:"slug" doc:"URL-friendly identifier"`
	ContactEmail string  `json:"contact_email" doc:"Primary contact address"`
	ContactPhone *string `json:"contact_phone,omitempty" doc:"Primary contact phone"`
	Status       string  `json:"status" doc:"Lifecycle state"`
	CreatedAt    string  `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
	UpdatedAt    string  `json:"updated_at" doc:"Last update timestamp (RFC 3339)"`
}

func toTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID().String(),
		Name:         t.Name(),
		Slug:         t.Slug().String(),
		ContactEmail: t.ContactEmail().String(),
		ContactPhone: t.ContactPhone(),
		Status:       string(t.Status()),
		CreatedAt:    formatTime(t.CreatedAt()),
		UpdatedAt:    formatTime(t.UpdatedAt()),
	}
}

// --- Create Tenant ---

type CreateTenantInput struct {
	Body struct {
		Name         string  `json:"name" maxLength:"255" doc:"Display name"`
		Slug         string  `json:"slug" maxLength:"50" doc:"URL-friendly identifier (letters, digits, hyphens)"`
		ContactEmail string  `json:"contact_email" doc:"Primary contact address"`
		ContactPhone *string `json:"contact_phone,omitempty" doc:"Primary contact phone"`
	}
}

type TenantOutput struct {
	Body TenantResponse
}

// --- Get Tenant ---

type GetTenantInput struct {
	ID string `path:"id" doc:"Tenant ID"`
}

type GetTenantBySlugInput struct {
	Slug string `path:"slug" doc:"Tenant slug"`
}

// --- List Tenants ---

type ListTenantsInput struct {
	Limit  int `query:"limit" required:"false" default:"20" doc:"Max results (1-100)"`
	Offset int `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type TenantListResponse struct {
	Tenants []TenantResponse `json:"tenants"`
	Total   int              `json:"total" doc:"Number of tenants across all pages"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type ListTenantsOutput struct {
	Body TenantListResponse
}

// --- Transition ---

type TransitionTenantInput struct {
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"activate,suspend,deactivate"`
	}
}

// --- Update ---

type UpdateTenantInput struct {
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		Name         string  `json:"name" maxLength:"255" doc:"Display name"`
		ContactEmail string  `json:"contact_email" doc:"Primary contact address"`
		ContactPhone *string `json:"contact_phone,omitempty" doc:"Primary contact phone"`
	}
}

// RegisterTenants adds the tenant routes to the Huma API.
func RegisterTenants(api huma.API, svc *app.TenantService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-tenant",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenants",
		Summary:       "Create a new tenant",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTenantInput) (*TenantOutput, error) {
		t, err := svc.Create(ctx, app.CreateTenantCommand{
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			ContactEmail: input.Body.ContactEmail,
			ContactPhone: input.Body.ContactPhone,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &TenantOutput{Body: toTenantResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Get a tenant by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*TenantOutput, error) {
		t, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &TenantOutput{Body: toTenantResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant-by-slug",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/by-slug/{slug}",
		Summary:     "Get a tenant by slug",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantBySlugInput) (*TenantOutput, error) {
		t, err := svc.GetBySlug(ctx, input.Slug)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &TenantOutput{Body: toTenantResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants, newest first",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		page, err := svc.List(ctx, app.ListTenantsQuery{Limit: input.Limit, Offset: input.Offset})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}

		resp := make([]TenantResponse, len(page.Tenants))
		for i, t := range page.Tenants {
			resp[i] = toTenantResponse(t)
		}
		return &ListTenantsOutput{Body: TenantListResponse{
			Tenants: resp,
			Total:   page.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants/{id}/events",
		Summary:     "Trigger a lifecycle event",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TransitionTenantInput) (*TenantOutput, error) {
		t, err := svc.Transition(ctx, input.ID, input.Body.Event)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &TenantOutput{Body: toTenantResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPut,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Update tenant name and contact details",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*TenantOutput, error) {
		t, err := svc.UpdateInfo(ctx, app.UpdateTenantCommand{
			ID:           input.ID,
			Name:         input.Body.Name,
			ContactEmail: input.Body.ContactEmail,
			ContactPhone: input.Body.ContactPhone,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &TenantOutput{Body: toTenantResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-tenant",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tenants/{id}",
		Summary:       "Delete a tenant",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *GetTenantInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(ctx, err)
		}
		return nil, nil
	})
}
