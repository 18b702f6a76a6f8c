// Package integration provides helpers and integration tests for the flight
// reconciliation service. Integration tests verify that components work
// together correctly: HTTP handlers, the use case, and the trip store.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	httpAdapter "github.com/tripdesk/flight-reconciliation-service/internal/adapter/http"
	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/store/memory"
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/usecase"
)

// TestServer wraps an Echo instance and provides helper methods for
// integration testing.
type TestServer struct {
	Echo    *echo.Echo
	Handler *httpAdapter.ReconcileHandler
	Store   domain.TripStore
}

// NewTestServer creates a test server on top of a fresh in-memory store.
func NewTestServer() (*TestServer, *memory.Store) {
	store := memory.New()
	ts := NewTestServerWithStore(store)
	return ts, store
}

// NewTestServerWithStore creates a test server around the given store.
func NewTestServerWithStore(store domain.TripStore) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	uc := usecase.NewFlightReconcileUseCase(store, zerolog.Nop(), nil)
	handler := httpAdapter.NewReconcileHandler(uc, usecase.DefaultOptions())
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:    e,
		Handler: handler,
		Store:   store,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// PreviewRequest posts a booking to the preview endpoint of a trip.
func (ts *TestServer) PreviewRequest(tripID string, body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/trips/" + tripID + "/flights/preview",
		Body:   body,
	})
}

// ApplyRequest posts a booking to the apply endpoint of a trip.
func (ts *TestServer) ApplyRequest(tripID string, body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/trips/" + tripID + "/flights",
		Body:   body,
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// ParsePreviewResponse parses the response body as a preview response.
func (r *Response) ParsePreviewResponse() (*httpAdapter.PreviewResponseDTO, error) {
	var resp httpAdapter.PreviewResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseApplyResponse parses the response body as an apply response.
func (r *Response) ParseApplyResponse() (*httpAdapter.ApplyResponseDTO, error) {
	var resp httpAdapter.ApplyResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]interface{}, error) {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}

// JapanBookingBody returns a valid request body holding the outbound legs of
// a San Francisco to Tokyo journey: a long-haul flight plus a short
// connection six hours later.
func JapanBookingBody() httpAdapter.AddFlightsRequest {
	return httpAdapter.AddFlightsRequest{
		ConfirmationNumber: "ABC123",
		PassengerName:      "DOE/JANE",
		TotalCost:          1450,
		Currency:           "USD",
		Flights: []httpAdapter.FlightLegDTO{
			{
				Carrier:          "United Airlines",
				CarrierCode:      "UA",
				FlightNumber:     "UA875",
				DepartureAirport: "SFO",
				DepartureCity:    "San Francisco, CA, US",
				DepartureDate:    "2025-07-15",
				DepartureTime:    "10:00",
				ArrivalAirport:   "NRT",
				ArrivalCity:      "Tokyo, JP",
				ArrivalDate:      "2025-07-16",
				ArrivalTime:      "14:00",
			},
			{
				Carrier:          "All Nippon Airways",
				CarrierCode:      "NH",
				FlightNumber:     "NH820",
				DepartureAirport: "NRT",
				DepartureCity:    "Tokyo, JP",
				DepartureDate:    "2025-07-16",
				DepartureTime:    "20:00",
				ArrivalAirport:   "HND",
				ArrivalCity:      "Tokyo, JP",
				ArrivalDate:      "2025-07-16",
				ArrivalTime:      "21:00",
			},
		},
	}
}

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedJapanTrip seeds a trip holding a segment that covers the Japan booking.
func SeedJapanTrip(store *memory.Store) *domain.Trip {
	start := mustParseTime("2025-07-14T00:00:00Z")
	end := mustParseTime("2025-07-20T00:00:00Z")
	return store.SeedTrip(domain.Trip{
		Name: "Japan Summer",
		Segments: []domain.Segment{
			{
				Name:       "San Francisco → Tokyo",
				StartTitle: "San Francisco",
				EndTitle:   "Tokyo",
				StartTime:  &start,
				EndTime:    &end,
				Order:      0,
			},
		},
	})
}
