package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chronoplan/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Events     *handlers.EventsHandler
	Generation *handlers.GenerationHandler
	Metrics    *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	app.Get("/event-types", cfg.Events.Types)

	users := app.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Get("/:id/activity", cfg.Users.Activity)
	users.Get("/:id/events.ics", cfg.Events.Export)
	users.Get("/:id/events", cfg.Events.List)
	users.Post("/:id/events", cfg.Events.Create)
	users.Get("/:id/agenda", cfg.Events.Agenda)
	users.Post("/:id/generate", cfg.Generation.Generate)

	app.Delete("/events/:id", cfg.Events.Delete)
	app.Get("/sessions/:id/generation", cfg.Generation.Status)
}
