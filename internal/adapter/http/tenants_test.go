package http_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	adapter "github.com/neomorfeo/coursebridge/internal/adapter/http"
)

func TestCreateTenant(t *testing.T) {
	srv := newTestServer(t)

	got := mustCreateTenant(t, srv, "Acme University", "acme-university")
	if got.Status != "pending" {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.Slug != "acme-university" {
		t.Errorf("Slug = %q", got.Slug)
	}
	if got.ContactEmail != "admin@acme-university.edu" {
		t.Errorf("ContactEmail = %q", got.ContactEmail)
	}
	if got.ID == "" {
		t.Error("ID should not be empty")
	}
}

func TestCreateTenant_DuplicateSlug(t *testing.T) {
	srv := newTestServer(t)
	mustCreateTenant(t, srv, "Acme", "acme")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tenants",
		`{"name":"Other","slug":"acme","contact_email":"x@acme.edu"}`)
	detail := errorDetail(t, resp, http.StatusConflict)
	if !strings.Contains(detail, "acme") {
		t.Errorf("detail = %q, want the slug", detail)
	}
}

func TestCreateTenant_Invalid(t *testing.T) {
	srv := newTestServer(t)

	bodies := []string{
		`{"name":"Acme","slug":"a!","contact_email":"admin@acme.edu"}`,
		`{"name":"Acme","slug":"acme","contact_email":"nope"}`,
		`{"name":"","slug":"acme","contact_email":"admin@acme.edu"}`,
		`{"slug":"acme","contact_email":"admin@acme.edu"}`,
	}
	for _, body := range bodies {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tenants", body)
		expectStatus(t, resp, http.StatusUnprocessableEntity)
	}
}

func TestGetTenant(t *testing.T) {
	srv := newTestServer(t)
	created := mustCreateTenant(t, srv, "Acme", "acme")

	got := decode[adapter.TenantResponse](t,
		doRequest(t, http.MethodGet, srv.URL+"/api/v1/tenants/"+created.ID, ""), http.StatusOK)
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	bySlug := decode[adapter.TenantResponse](t,
		doRequest(t, http.MethodGet, srv.URL+"/api/v1/tenants/by-slug/acme", ""), http.StatusOK)
	if bySlug.ID != created.ID {
		t.Errorf("by slug ID = %q, want %q", bySlug.ID, created.ID)
	}
}

func TestGetTenant_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tenants/00000000-0000-4000-8000-000000000000", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestListTenants(t *testing.T) {
	srv := newTestServer(t)
	for i := range 3 {
		mustCreateTenant(t, srv, fmt.Sprintf("Tenant %d", i), fmt.Sprintf("tenant-%d", i))
	}

	page := decode[adapter.TenantListResponse](t,
		doRequest(t, http.MethodGet, srv.URL+"/api/v1/tenants?limit=2", ""), http.StatusOK)
	if len(page.Tenants) != 2 || page.Total != 3 {
		t.Errorf("got %d of %d, want 2 of 3", len(page.Tenants), page.Total)
	}

	clamped := decode[adapter.TenantListResponse](t,
		doRequest(t, http.MethodGet, srv.URL+"/api/v1/tenants?limit=500&offset=-1", ""), http.StatusOK)
	if clamped.Limit != 20 || clamped.Offset != 0 {
		t.Errorf("limit/offset = %d/%d, want 20/0", clamped.Limit, clamped.Offset)
	}
}

func TestTransitionTenant(t *testing.T) {
	srv := newTestServer(t)
	created := mustCreateTenant(t, srv, "Acme", "acme")
	url := srv.URL + "/api/v1/tenants/" + created.ID + "/events"

	got := decode[adapter.TenantResponse](t, doRequest(t, http.MethodPost, url, `{"event":"activate"}`), http.StatusOK)
	if got.Status != "active" {
		t.Errorf("Status = %q, want active", got.Status)
	}

	detail := errorDetail(t, doRequest(t, http.MethodPost, url, `{"event":"activate"}`), http.StatusUnprocessableEntity)
	if detail != "tenant is already active" {
		t.Errorf("detail = %q", detail)
	}

	expectStatus(t, doRequest(t, http.MethodPost, url, `{"event":"explode"}`), http.StatusUnprocessableEntity)
}

func TestUpdateAndDeleteTenant(t *testing.T) {
	srv := newTestServer(t)
	created := mustCreateTenant(t, srv, "Acme", "acme")
	url := srv.URL + "/api/v1/tenants/" + created.ID

	got := decode[adapter.TenantResponse](t, doRequest(t, http.MethodPut, url,
		`{"name":"Acme Renamed","contact_email":"ops@acme.edu","contact_phone":"+34 600 000 000"}`), http.StatusOK)
	if got.Name != "Acme Renamed" || got.ContactPhone == nil {
		t.Errorf("update = %+v", got)
	}

	expectStatus(t, doRequest(t, http.MethodDelete, url, ""), http.StatusNoContent)
	expectStatus(t, doRequest(t, http.MethodGet, url, ""), http.StatusNotFound)
}
