package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Members        *handlers.MembersHandler
	Meetings       *handlers.MeetingsHandler
	TokenValidator *auth.TokenValidator
}

// RegisterRoutes wires HTTP routes. The token validator runs before every
// route so an invalid access token fails the request even on routes that
// allow anonymous callers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.TokenValidator.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	members := app.Group("/members")
	members.Post("", cfg.Members.Register)
	members.Get("/me", auth.RequireAuthenticated(), cfg.Members.Me)
	members.Put("/me/profile", auth.RequireAuthenticated(), cfg.Members.CompleteProfile)

	meetings := app.Group("/meetings")
	meetings.Get("", cfg.Meetings.List)
	meetings.Get("/:id", cfg.Meetings.Get)
	meetings.Post("", auth.RequireAuthenticated(), cfg.Meetings.Create)
	meetings.Put("/:id", auth.RequireAuthenticated(), cfg.Meetings.Update)
	meetings.Post("/:id/confirm", auth.RequireAuthenticated(), cfg.Meetings.Confirm)
	meetings.Post("/:id/like", cfg.Meetings.Like)
	meetings.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Meetings.Delete)
	meetings.Post("/:id/applications", auth.RequireAuthenticated(), cfg.Meetings.Apply)
	meetings.Get("/:id/applications", auth.RequireAuthenticated(), cfg.Meetings.Applications)

	app.Post("/applications/:id/decision", auth.RequireAuthenticated(), cfg.Meetings.Decide)
}
