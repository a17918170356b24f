package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/boutiquegn/backoffice/api-gateway/config"
	"github.com/boutiquegn/backoffice/api-gateway/health"
	"github.com/boutiquegn/backoffice/api-gateway/middleware"
	"github.com/boutiquegn/backoffice/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool // Requires authentication
	RequireAdmin bool // Requires admin role
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	{
		Prefix:       "/api/products",
		ServiceName:  "backoffice",
		Description:  "Product catalog",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/inventory",
		ServiceName:  "backoffice",
		Description:  "Stock ledger and thresholds",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/reservations",
		ServiceName:  "backoffice",
		Description:  "Stock reservations",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/orders",
		ServiceName:  "backoffice",
		Description:  "Order lifecycle",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/payments",
		ServiceName:  "backoffice",
		Description:  "Payment lifecycle",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/refunds",
		ServiceName:  "backoffice",
		Description:  "Refund workflow",
		RequireAuth:  true,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/audit",
		ServiceName:  "backoffice",
		Description:  "Audit trail (admin only)",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	// Create reverse proxy
	reverseProxy := proxy.NewReverseProxy(cfg)

	// Create health checker
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)
		return c.JSON(healthStatus)
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Backoffice API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Register all service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	// Apply middleware based on route requirements
	var middlewares []fiber.Handler

	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	// Create a route group for this service
	group := app.Group(route.Prefix, middlewares...)

	// Handle all HTTP methods with wildcard path
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
