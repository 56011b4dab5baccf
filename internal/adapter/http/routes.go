package http

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/coursebridge/internal/app"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Tenants  *app.TenantService
	Learning *app.LearningService
	Records  *app.RecordsService
}

// Register adds every route to the Huma API.
func Register(api huma.API, svc Services) {
	RegisterHealth(api)
	RegisterTenants(api, svc.Tenants)
	RegisterLearning(api, svc.Learning)
	RegisterRecords(api, svc.Records)
}
