package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/http/response"
)

// newContext builds an echo context for a single request against the
// reconciliation surface.
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// lastLogEntry parses the final JSON line written to the log buffer.
func lastLogEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines[0], "expected at least one log line")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")

	handler := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	id := rec.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetRequestID(c))
}

func TestRequestID_PropagatesIncomingHeader(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
	c.Request().Header.Set(RequestIDHeader, "upstream-id-77")

	handler := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	assert.Equal(t, "upstream-id-77", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "upstream-id-77", GetRequestID(c))
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/health")
	assert.Empty(t, GetRequestID(c))
}

func TestRequestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, _ := newContext(http.MethodPost, "/api/v1/trips/trip-9/flights/preview")
	c.SetParamNames("tripId")
	c.SetParamValues("trip-9")
	c.Set(ctxKeyRequestID, "req-123")

	handler := RequestLogger(log)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/v1/trips/trip-9/flights/preview", entry["path"])
	assert.Equal(t, "trip-9", entry["trip_id"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Contains(t, entry, "duration_ms")
	assert.Equal(t, "HTTP request", entry["message"])
}

func TestRequestLogger_OmitsTripIDOffTripRoutes(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, _ := newContext(http.MethodGet, "/health")
	handler := RequestLogger(log)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	entry := lastLogEntry(t, &buf)
	assert.NotContains(t, entry, "trip_id")
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"success logs info", http.StatusOK, "info"},
		{"client error logs warn", http.StatusNotFound, "warn"},
		{"server error logs error", http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf)

			c, _ := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
			handler := RequestLogger(log)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})
			require.NoError(t, handler(c))

			entry := lastLogEntry(t, &buf)
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, tt.level, entry["level"])
		})
	}
}

func TestRequestLogger_HandlerErrorStillLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, rec := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
	handler := RequestLogger(log)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad payload")
	})

	// The middleware absorbs the error after routing it through echo.
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, float64(400), entry["status"])
}

func TestRecover_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, rec := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
	c.Set(ctxKeyRequestID, "req-panic")

	handler := Recover(log)(func(c echo.Context) error {
		panic("reservation write exploded")
	})

	assert.NotPanics(t, func() {
		_ = handler(c)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var detail response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, response.CodeInternalError, detail.Code)
	assert.Equal(t, response.MsgInternalError, detail.Message)

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "req-panic", entry["request_id"])
	assert.Equal(t, "reservation write exploded", entry["panic"])
	assert.Contains(t, entry["stack"], "goroutine")
	assert.Equal(t, "Panic recovered", entry["message"])
}

func TestRecover_RuntimeErrorPanic(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, rec := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
	handler := Recover(log)(func(c echo.Context) error {
		var legs []string
		_ = legs[3]
		return nil
	})

	assert.NotPanics(t, func() {
		_ = handler(c)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entry := lastLogEntry(t, &buf)
	assert.Contains(t, entry["panic"], "index out of range")
}

func TestRecover_NormalRequestUntouched(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, rec := newContext(http.MethodGet, "/health")
	handler := Recover(log)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, buf.String())
}

func TestRecoverWithConfig_StackSuppressed(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, _ := newContext(http.MethodPost, "/api/v1/trips/trip-1/flights")
	handler := RecoverWithConfig(log, RecoveryConfig{DisablePrintStack: true})(func(c echo.Context) error {
		panic("quiet panic")
	})

	_ = handler(c)

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "quiet panic", entry["panic"])
	assert.NotContains(t, entry, "stack")
}

func TestSetup_FullChain(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	Setup(e, log)
	e.POST("/api/v1/trips/:tripId/flights", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/trip-3/flights", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), entry["request_id"])
	assert.Equal(t, "trip-3", entry["trip_id"])
}

func TestSetup_PanicInHandlerChain(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	Setup(e, log)
	e.POST("/api/v1/trips/:tripId/flights", func(c echo.Context) error {
		panic("handler panic")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/trip-1/flights", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		e.ServeHTTP(rec, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestSetupWithConfig_PassesRecoveryConfig(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	SetupWithConfig(e, log, RecoveryConfig{DisablePrintStack: true})
	e.GET("/health", func(c echo.Context) error {
		panic("config panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var panicEntry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err == nil && entry["message"] == "Panic recovered" {
			panicEntry = entry
			break
		}
	}
	require.NotNil(t, panicEntry)
	assert.NotContains(t, panicEntry, "stack")
}

func TestChain_SameMiddlewareAsSetup(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	mws := Chain(log)
	require.Len(t, mws, 3)

	e := echo.New()
	for _, mw := range mws {
		e.Use(mw)
	}
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
