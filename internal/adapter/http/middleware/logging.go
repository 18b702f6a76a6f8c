package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger returns middleware that logs every request on completion.
// Errors from the handler chain are routed through Echo's error handler
// before the log line is emitted, so the logged status is the one the
// client actually received.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status

			event := levelFor(log, status).
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("client_ip", c.RealIP())

			// Reconciliation endpoints are all trip-scoped; tag the line when
			// the route carries a trip.
			if tripID := c.Param("tripId"); tripID != "" {
				event = event.Str("trip_id", tripID)
			}

			event.Msg("HTTP request")

			// The error was already handled via c.Error above.
			return nil
		}
	}
}

// levelFor picks the log level from the response status: 5xx error,
// 4xx warn, everything else info.
func levelFor(log zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	default:
		return log.Info()
	}
}
