package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/internal/api/http/handlers"
	"github.com/spec-kit/clinic-admin/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Admin     *handlers.AdminHandler
	Directory *handlers.DirectoryHandler
	Whitelist *handlers.WhitelistHandler
	Gate      *auth.SessionGate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/admin-login", cfg.Admin.Login)
	app.Delete("/admin-login", cfg.Admin.Logout)

	app.Get("/whitelist", cfg.Whitelist.Emails)

	admin := app.Group("/admin", auth.RequireAdmin(cfg.Gate))
	admin.Get("/doctors", cfg.Directory.ListDoctors)
	admin.Post("/doctors", cfg.Directory.AddDoctor)
	admin.Delete("/doctors", cfg.Directory.DeleteDoctor)

	admin.Get("/nurses", cfg.Directory.ListNurses)
	admin.Post("/nurses", cfg.Directory.AddNurse)
	admin.Delete("/nurses", cfg.Directory.DeleteNurse)

	admin.Get("/whitelist", cfg.Whitelist.List)
	admin.Post("/whitelist", cfg.Whitelist.Add)
	admin.Delete("/whitelist", cfg.Whitelist.Delete)
}
