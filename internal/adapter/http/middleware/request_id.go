// Package middleware provides HTTP middleware for cross-cutting concerns:
// request correlation, request logging, and panic recovery.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header used to correlate a request across
// services. Incoming values are trusted and propagated as-is.
const RequestIDHeader = "X-Request-ID"

const ctxKeyRequestID = "request_id"

// RequestID returns middleware that assigns every request a correlation ID:
// the incoming X-Request-ID header when present, a fresh UUID otherwise.
// The ID is stored on the echo context and echoed back in the response
// header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}

			c.Set(ctxKeyRequestID, id)
			c.Response().Header().Set(RequestIDHeader, id)

			return next(c)
		}
	}
}

// GetRequestID returns the request's correlation ID, or "" when the
// RequestID middleware has not run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(ctxKeyRequestID).(string); ok {
		return id
	}
	return ""
}
