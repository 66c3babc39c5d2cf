package http

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/domain"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Tenants       *app.TenantRegistry
	Notifications *app.NotificationCenter
	Routes        *app.RouteRegistry
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerTenants(api, svc.Tenants)
	registerNotifications(api, svc.Notifications)
	registerRoutes(api, svc.Routes)
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error409Conflict(trErr.Error())
	}

	var invErr *domain.InvariantViolationError
	if errors.As(err, &invErr) {
		return huma.Error409Conflict(invErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatTime(t)
}
