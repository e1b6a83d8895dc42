package http

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/handlers"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Email   *handlers.EmailHandler
	Jobs    *handlers.JobHandler
	Imports *handlers.ImportHandler
}

// Register wires all HTTP routes onto given Fiber app. authMW guards every
// route except health and auth; parseLimit additionally throttles email parsing.
func Register(app *fiber.App, h Handlers, authMW, parseLimit fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)
	a.Get("/me", authMW, h.Auth.Me)

	emails := v1.Group("/emails", authMW)
	emails.Post("/parse", parseLimit, h.Email.Parse)
	emails.Post("/classify", h.Email.Classify)
	emails.Get("/platforms", h.Email.Platforms)

	jobs := v1.Group("/jobs", authMW)
	jobs.Post("/", h.Jobs.Create)
	jobs.Get("/", h.Jobs.List)
	jobs.Get("/:id", h.Jobs.Get)
	jobs.Delete("/:id", h.Jobs.Delete)
	jobs.Get("/:id/platforms", h.Jobs.Platforms)

	imports := v1.Group("/imports", authMW)
	imports.Get("/", h.Imports.List)
	imports.Get("/:id", h.Imports.Get)
	imports.Post("/:id/confirm", h.Imports.Confirm)
	imports.Post("/:id/dismiss", h.Imports.Dismiss)

	app.Get("/swagger/*", swagger.HandlerDefault)
}
