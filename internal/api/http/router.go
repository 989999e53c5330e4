package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-analytics/internal/api/http/handlers"
	"github.com/spec-kit/ticket-analytics/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.Middleware
	AdminGuard     *auth.APIKeyGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle)
	analytics.Get("/performance", cfg.Analytics.Performance)
	analytics.Post("/patterns", cfg.Analytics.Patterns)
	analytics.Post("/forecast", cfg.Analytics.Forecast)
	analytics.Get("/quick-stats", cfg.Analytics.QuickStats)

	admin := app.Group("/admin", cfg.AdminGuard.Handle)
	admin.Post("/cache/clear", cfg.Analytics.ClearCache)
}
