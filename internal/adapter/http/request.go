// Package http provides the HTTP handler layer for the flight reconciliation API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/usecase"
)

// maxFlightsPerRequest bounds one extraction event. Real bookings rarely
// exceed a dozen legs.
const maxFlightsPerRequest = 100

// AddFlightsRequest represents the request body for adding extracted flights
// to a trip. The same body is accepted by the preview and apply endpoints.
type AddFlightsRequest struct {
	// ConfirmationNumber is the booking confirmation code (e.g., "ABC123")
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`

	// PassengerName is the traveler as written in the booking (e.g., "DOE/JOHN")
	PassengerName string `json:"passengerName,omitempty"`

	// ETicketNumber is the electronic ticket number
	ETicketNumber string `json:"eTicketNumber,omitempty"`

	// PurchaseDate is the booking purchase date in YYYY-MM-DD format
	PurchaseDate string `json:"purchaseDate,omitempty"`

	// TotalCost is the total booking cost, split evenly across legs
	TotalCost float64 `json:"totalCost,omitempty"`

	// Currency is the ISO 4217 currency code for TotalCost (e.g., "USD")
	Currency string `json:"currency,omitempty"`

	// Flights is the flat, unordered list of extracted flight legs
	Flights []FlightLegDTO `json:"flights"`

	// Options tunes the reconciliation run (all fields optional)
	Options *OptionsDTO `json:"options,omitempty"`
}

// FlightLegDTO represents a single extracted flight leg.
type FlightLegDTO struct {
	// Carrier is the full airline name (e.g., "United Airlines")
	Carrier string `json:"carrier"`

	// CarrierCode is the IATA airline code (e.g., "UA")
	CarrierCode string `json:"carrierCode,omitempty"`

	// FlightNumber is the airline's flight number (e.g., "UA875")
	FlightNumber string `json:"flightNumber"`

	// DepartureAirport is the IATA code of the departure airport (e.g., "SFO")
	DepartureAirport string `json:"departureAirport"`

	// DepartureCity is the departure city as written in the booking
	DepartureCity string `json:"departureCity,omitempty"`

	// DepartureDate is the departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// DepartureTime is the local departure time ("14:30" or "2:30 PM")
	DepartureTime string `json:"departureTime"`

	// ArrivalAirport is the IATA code of the arrival airport
	ArrivalAirport string `json:"arrivalAirport"`

	// ArrivalCity is the arrival city as written in the booking
	ArrivalCity string `json:"arrivalCity,omitempty"`

	// ArrivalDate is the arrival date in YYYY-MM-DD format
	ArrivalDate string `json:"arrivalDate"`

	// ArrivalTime is the local arrival time ("14:30" or "2:30 PM")
	ArrivalTime string `json:"arrivalTime"`

	// Cabin is the cabin class (optional)
	Cabin string `json:"cabin,omitempty"`

	// SeatNumber is the assigned seat (optional)
	SeatNumber string `json:"seatNumber,omitempty"`

	// OperatedBy is the operating carrier for codeshares (optional)
	OperatedBy string `json:"operatedBy,omitempty"`

	// ConfirmationNumber overrides the booking-level confirmation code
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`

	// ETicketNumber overrides the booking-level e-ticket number
	ETicketNumber string `json:"eTicketNumber,omitempty"`

	// Cost overrides this leg's share of the booking cost
	Cost *float64 `json:"cost,omitempty"`

	// Currency is the ISO 4217 currency code for Cost
	Currency string `json:"currency,omitempty"`
}

// OptionsDTO tunes a reconciliation run. Omitted fields fall back to the
// service defaults.
type OptionsDTO struct {
	// AutoCluster enables time-adjacency clustering (default true). When
	// false, targetSegmentId is required and all legs attach to it directly.
	AutoCluster *bool `json:"autoCluster,omitempty"`

	// MaxGapHours is the cluster chaining threshold in hours (default 48)
	MaxGapHours *float64 `json:"maxGapHours,omitempty" example:"48"`

	// CreateSuggestedSegments allows creating new segments for unmatched
	// clusters (default true). When false such clusters are skipped.
	CreateSuggestedSegments *bool `json:"createSuggestedSegments,omitempty"`

	// TargetSegmentID is the manual-assignment target when autoCluster=false
	TargetSegmentID string `json:"targetSegmentId,omitempty"`
}

// Validation regex patterns.
var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates the request shape. Leg-level data problems (unparsable
// dates, departure after arrival) are not rejected here: malformed legs are
// reported per leg in the response while valid legs proceed.
func (r *AddFlightsRequest) Validate() error {
	errs := &ValidationErrors{}

	r.validateFlights(errs)
	r.validateBookingFields(errs)
	r.validateOptions(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *AddFlightsRequest) validateFlights(errs *ValidationErrors) {
	if len(r.Flights) == 0 {
		errs.Add("flights", "flights is required and must contain at least one leg")
		return
	}
	if len(r.Flights) > maxFlightsPerRequest {
		errs.Add("flights", fmt.Sprintf("flights cannot exceed %d legs", maxFlightsPerRequest))
	}

	for i, leg := range r.Flights {
		if leg.FlightNumber == "" {
			errs.Add(fmt.Sprintf("flights[%d].flightNumber", i), "flightNumber is required")
		}
	}
}

func (r *AddFlightsRequest) validateBookingFields(errs *ValidationErrors) {
	if r.PurchaseDate != "" && !datePattern.MatchString(r.PurchaseDate) {
		errs.Add("purchaseDate", "purchaseDate must be in YYYY-MM-DD format")
	}

	if r.TotalCost < 0 {
		errs.Add("totalCost", "totalCost must be a non-negative number")
	}

	if r.Currency != "" {
		normalized := strings.ToUpper(r.Currency)
		if !currencyPattern.MatchString(normalized) {
			errs.Add("currency", "currency must be a 3-letter ISO 4217 code")
		} else {
			r.Currency = normalized
		}
	}
}

func (r *AddFlightsRequest) validateOptions(errs *ValidationErrors) {
	if r.Options == nil {
		return
	}

	if r.Options.MaxGapHours != nil && *r.Options.MaxGapHours < 0 {
		errs.Add("options.maxGapHours", "maxGapHours must be a non-negative number")
	}

	if r.Options.AutoCluster != nil && !*r.Options.AutoCluster && r.Options.TargetSegmentID == "" {
		errs.Add("options.targetSegmentId", "targetSegmentId is required when autoCluster is false")
	}
}

// ToBooking converts the request into the domain extraction event.
func (r *AddFlightsRequest) ToBooking() domain.BookingExtraction {
	legs := make([]domain.FlightLeg, len(r.Flights))
	for i, dto := range r.Flights {
		legs[i] = domain.FlightLeg{
			Carrier:            dto.Carrier,
			CarrierCode:        dto.CarrierCode,
			FlightNumber:       dto.FlightNumber,
			DepartureAirport:   dto.DepartureAirport,
			DepartureCity:      dto.DepartureCity,
			DepartureDate:      dto.DepartureDate,
			DepartureTime:      dto.DepartureTime,
			ArrivalAirport:     dto.ArrivalAirport,
			ArrivalCity:        dto.ArrivalCity,
			ArrivalDate:        dto.ArrivalDate,
			ArrivalTime:        dto.ArrivalTime,
			Cabin:              dto.Cabin,
			SeatNumber:         dto.SeatNumber,
			OperatedBy:         dto.OperatedBy,
			ConfirmationNumber: dto.ConfirmationNumber,
			ETicketNumber:      dto.ETicketNumber,
			Cost:               dto.Cost,
			Currency:           dto.Currency,
		}
	}

	return domain.BookingExtraction{
		ConfirmationNumber: r.ConfirmationNumber,
		PassengerName:      r.PassengerName,
		ETicketNumber:      r.ETicketNumber,
		PurchaseDate:       r.PurchaseDate,
		TotalCost:          r.TotalCost,
		Currency:           r.Currency,
		Flights:            legs,
	}
}

// ToOptions overlays the request options on top of the given defaults.
func (r *AddFlightsRequest) ToOptions(defaults usecase.Options) usecase.Options {
	opts := defaults
	if r.Options == nil {
		return opts
	}

	if r.Options.AutoCluster != nil {
		opts.AutoCluster = *r.Options.AutoCluster
	}
	if r.Options.MaxGapHours != nil && *r.Options.MaxGapHours > 0 {
		opts.MaxGapHours = *r.Options.MaxGapHours
	}
	if r.Options.CreateSuggestedSegments != nil {
		opts.CreateSuggestedSegments = *r.Options.CreateSuggestedSegments
	}
	opts.TargetSegmentID = r.Options.TargetSegmentID
	return opts
}
