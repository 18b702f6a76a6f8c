// Package http provides the HTTP handler layer for the flight reconciliation API.
package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all reconciliation API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *ReconcileHandler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API v1 group
	api := e.Group("/api/v1")

	// Trip flights group
	trips := api.Group("/trips")
	trips.POST("/:tripId/flights/preview", h.PreviewFlights)
	trips.POST("/:tripId/flights", h.AddFlights)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware.
// This allows for endpoint-specific middleware configuration.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *ReconcileHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	// API v1 group with middleware
	api := e.Group("/api/v1", middleware...)

	// Trip flights group
	trips := api.Group("/trips")
	trips.POST("/:tripId/flights/preview", h.PreviewFlights)
	trips.POST("/:tripId/flights", h.AddFlights)
}
