// Package response provides standardized HTTP response builders for the flight reconciliation API.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health writes a health check response.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status: "ok",
	})
}

// PreviewResult writes a 200 OK response with a reconciliation preview.
func PreviewResult(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, result)
}

// ApplyResult writes a 200 OK response with an apply report.
func ApplyResult(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, result)
}
