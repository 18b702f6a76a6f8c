// Package http provides the HTTP handler layer for the flight reconciliation API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/http/response"
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/usecase"
)

// ReconcileHandler handles HTTP requests for trip reconciliation endpoints.
type ReconcileHandler struct {
	useCase  usecase.FlightReconcileUseCase
	defaults usecase.Options
}

// NewReconcileHandler creates a new ReconcileHandler with the given use case
// and service-level option defaults.
func NewReconcileHandler(uc usecase.FlightReconcileUseCase, defaults usecase.Options) *ReconcileHandler {
	return &ReconcileHandler{
		useCase:  uc,
		defaults: defaults,
	}
}

// PreviewFlights handles POST /api/v1/trips/:tripId/flights/preview
//
// @Summary Preview flight reconciliation
// @Description Cluster extracted flight legs and show matches or suggested segments without writing anything
// @Tags trips
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body AddFlightsRequest true "Extracted booking"
// @Success 200 {object} PreviewResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Trip not found"
// @Failure 503 {object} response.ErrorDetail "Trip store unavailable"
// @Router /api/v1/trips/{tripId}/flights/preview [post]
func (h *ReconcileHandler) PreviewFlights(c echo.Context) error {
	req, err := h.bindRequest(c)
	if req == nil {
		return err
	}

	result, err := h.useCase.Preview(c.Request().Context(), c.Param("tripId"), req.ToBooking(), req.ToOptions(h.defaults))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.PreviewResult(c, ToPreviewResponseDTO(result))
}

// AddFlights handles POST /api/v1/trips/:tripId/flights
//
// @Summary Add extracted flights to a trip
// @Description Cluster extracted flight legs and attach them to matched segments, creating new segments for unmatched clusters. Idempotent: re-sending the same booking never duplicates reservations.
// @Tags trips
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body AddFlightsRequest true "Extracted booking"
// @Success 200 {object} ApplyResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Trip or segment not found"
// @Failure 503 {object} response.ErrorDetail "Trip store unavailable"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/trips/{tripId}/flights [post]
func (h *ReconcileHandler) AddFlights(c echo.Context) error {
	req, err := h.bindRequest(c)
	if req == nil {
		return err
	}

	result, err := h.useCase.Apply(c.Request().Context(), c.Param("tripId"), req.ToBooking(), req.ToOptions(h.defaults))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.ApplyResult(c, ToApplyResponseDTO(result))
}

// bindRequest parses and validates the shared request body. On failure the
// 400 response has already been written and the request is nil; the returned
// error is whatever the response writer produced, so callers must branch on
// the request, not the error.
func (h *ReconcileHandler) bindRequest(c echo.Context) (*AddFlightsRequest, error) {
	var req AddFlightsRequest

	if err := c.Bind(&req); err != nil {
		return nil, response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return nil, h.handleValidationError(c, err)
	}

	return &req, nil
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *ReconcileHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *ReconcileHandler) handleError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrTripNotFound) || errors.Is(err, domain.ErrSegmentNotFound) {
		return response.NotFound(c, err.Error())
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		return response.ServiceUnavailable(c)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrNoLegs) {
		return response.ValidationErrorWithMessage(c, err.Error())
	}

	return response.InternalServerError(c)
}

// Health handles GET /health
// Simple health check endpoint.
func (h *ReconcileHandler) Health(c echo.Context) error {
	return response.Health(c)
}
