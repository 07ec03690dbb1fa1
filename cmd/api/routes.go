// Package main provides the API server entry point.
package main

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravets/eventhub/internal/infrastructure/httpserver"
	"github.com/mkravets/eventhub/internal/middleware"
)

// SetupRoutes configures all API routes and middleware chains.
func SetupRoutes(c *Container) *httpserver.Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routerConfig := httpserver.RouterConfig{
		Logger: c.Logger,
		AuthMiddleware: middleware.Auth(middleware.AuthConfig{
			Logger:         c.Logger,
			TokenValidator: c.TokenValidator,
			UserResolver:   c.UserResolver,
			SkipPaths: []string{
				"/health",
				"/ready",
				"/health/details",
			},
		}),
		CORSConfig:     middleware.DefaultCORSConfig(),
		LoggingConfig:  middleware.DefaultLoggingConfig(),
		RecoveryConfig: middleware.DefaultRecoveryConfig(),
		APIPrefix:      "/api/v1",
	}

	if c.RateLimitStore != nil {
		routerConfig.RateLimitMiddleware = middleware.RateLimit(middleware.RateLimitConfig{
			Logger: c.Logger,
			Store:  c.RateLimitStore,
			Limit:  c.Config.RateLimit.Limit,
			Window: c.Config.RateLimit.Window,
			SkipPaths: []string{
				"/health",
				"/ready",
			},
		})
	}

	router := httpserver.NewRouter(e, routerConfig)

	// Container implements httpserver.HealthChecker, so we pass it directly.
	router.RegisterHealthEndpointsWithChecker(c)

	// REST API
	router.RegisterAll(
		c.EventHandler,
		c.CategoryHandler,
		c.UserHandler,
	)

	// Refresh feed; browsing is public so the feed skips auth.
	c.WSHandler.RegisterRoutes(e)

	if c.Config.IsDevelopment() {
		router.PrintRoutes()
	}

	return router
}
