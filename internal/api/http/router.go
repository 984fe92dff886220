package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acidni/intake-service/internal/api/http/handlers"
	"github.com/acidni/intake-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Intake  *handlers.IntakeHandler
	Limiter *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", RateLimitMiddleware(cfg.Limiter))
	api.Post("/contact", cfg.Intake.Contact)
	api.Post("/feedback", cfg.Intake.Feedback)
	api.Post("/support", cfg.Intake.Support)

	// OPTIONS preflights are answered by the CORS middleware before routing;
	// every other non-POST method on a form path is rejected explicitly.
	api.All("/contact", cfg.Intake.MethodNotAllowed)
	api.All("/feedback", cfg.Intake.MethodNotAllowed)
	api.All("/support", cfg.Intake.MethodNotAllowed)
}
