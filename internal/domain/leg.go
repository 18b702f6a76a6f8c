// Package domain contains the core business entities and rules for the
// flight reconciliation engine. These entities are extraction-source agnostic
// and form the foundation upon which clustering, matching, and orchestration
// are built.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// FlightLeg represents a single flight segment extracted from a booking
// confirmation. Legs are immutable inputs: they are created once per
// extraction event and never mutated by the engine.
type FlightLeg struct {
	// Carrier is the full airline name (e.g., "United Airlines")
	Carrier string `json:"carrier"`

	// CarrierCode is the IATA airline code (e.g., "UA")
	CarrierCode string `json:"carrierCode"`

	// FlightNumber is the airline's flight number (e.g., "UA875")
	FlightNumber string `json:"flightNumber"`

	// DepartureAirport is the IATA code of the departure airport (e.g., "SFO")
	DepartureAirport string `json:"departureAirport"`

	// DepartureCity is the departure city as written in the booking
	// (e.g., "San Francisco, CA, US")
	DepartureCity string `json:"departureCity"`

	// DepartureDate is the departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// DepartureTime is the local departure time ("14:30" or "2:30 PM")
	DepartureTime string `json:"departureTime"`

	// ArrivalAirport is the IATA code of the arrival airport
	ArrivalAirport string `json:"arrivalAirport"`

	// ArrivalCity is the arrival city as written in the booking
	ArrivalCity string `json:"arrivalCity"`

	// ArrivalDate is the arrival date in YYYY-MM-DD format
	ArrivalDate string `json:"arrivalDate"`

	// ArrivalTime is the local arrival time ("14:30" or "2:30 PM")
	ArrivalTime string `json:"arrivalTime"`

	// Cabin is the cabin class if present in the booking (optional)
	Cabin string `json:"cabin,omitempty"`

	// SeatNumber is the assigned seat if present (optional)
	SeatNumber string `json:"seatNumber,omitempty"`

	// OperatedBy is the operating carrier for codeshares (optional)
	OperatedBy string `json:"operatedBy,omitempty"`

	// ConfirmationNumber is the booking confirmation code.
	// Together with Carrier and FlightNumber it forms the idempotency key.
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`

	// ETicketNumber is the electronic ticket number (optional)
	ETicketNumber string `json:"eTicketNumber,omitempty"`

	// Cost is this leg's share of the booking cost, if known
	Cost *float64 `json:"cost,omitempty"`

	// Currency is the ISO 4217 currency code for Cost
	Currency string `json:"currency,omitempty"`
}

// Layouts accepted for leg date/time strings. Extraction normally emits
// 24-hour times, but some sources still carry "10:15 AM" style values.
var legTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02 15:04:05",
}

// ParseLegInstant combines a YYYY-MM-DD date and a clock time into a single
// instant. The result is in UTC; the engine does not attempt timezone-perfect
// arithmetic beyond what the extraction provides.
func ParseLegInstant(date, clock string) (time.Time, error) {
	value := strings.TrimSpace(date) + " " + strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range legTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse instant from date %q time %q", date, clock)
}

// DepartureInstant returns the leg's departure as a single instant.
func (l *FlightLeg) DepartureInstant() (time.Time, error) {
	return ParseLegInstant(l.DepartureDate, l.DepartureTime)
}

// ArrivalInstant returns the leg's arrival as a single instant.
func (l *FlightLeg) ArrivalInstant() (time.Time, error) {
	return ParseLegInstant(l.ArrivalDate, l.ArrivalTime)
}

// DepartureLocation returns the city name when present, falling back to the
// airport code. Cluster boundaries are expressed in these terms.
func (l *FlightLeg) DepartureLocation() string {
	if l.DepartureCity != "" {
		return l.DepartureCity
	}
	return l.DepartureAirport
}

// ArrivalLocation returns the arrival city, falling back to the airport code.
func (l *FlightLeg) ArrivalLocation() string {
	if l.ArrivalCity != "" {
		return l.ArrivalCity
	}
	return l.ArrivalAirport
}

// ReservationName is the display name used when the leg is persisted as a
// reservation (e.g., "United Airlines UA875").
func (l *FlightLeg) ReservationName() string {
	if l.Carrier == "" {
		return l.FlightNumber
	}
	return l.Carrier + " " + l.FlightNumber
}

// Key returns the idempotency key for this leg.
func (l *FlightLeg) Key() ReservationKey {
	return ReservationKey{
		Carrier:            l.Carrier,
		FlightNumber:       l.FlightNumber,
		ConfirmationNumber: l.ConfirmationNumber,
	}
}

// Validate checks that the leg carries enough information to be clustered.
// A leg whose departure instant is not strictly before its arrival instant is
// malformed and must be excluded from clustering with a reported error.
func (l *FlightLeg) Validate() error {
	if l.FlightNumber == "" {
		return fmt.Errorf("%w: flightNumber is required", ErrInvalidRequest)
	}
	dep, err := l.DepartureInstant()
	if err != nil {
		return fmt.Errorf("%w: invalid departure: %v", ErrInvalidRequest, err)
	}
	arr, err := l.ArrivalInstant()
	if err != nil {
		return fmt.Errorf("%w: invalid arrival: %v", ErrInvalidRequest, err)
	}
	if !dep.Before(arr) {
		return fmt.Errorf("%w: departure %s is not before arrival %s", ErrInvalidRequest,
			dep.Format(time.RFC3339), arr.Format(time.RFC3339))
	}
	return nil
}

// BookingExtraction is one extraction event: the flat leg list plus
// booking-level metadata that is opaque to the clustering core.
type BookingExtraction struct {
	// ConfirmationNumber is the booking confirmation code
	ConfirmationNumber string `json:"confirmationNumber"`

	// PassengerName is the traveler as written in the booking (e.g., "DOE/JOHN")
	PassengerName string `json:"passengerName,omitempty"`

	// ETicketNumber is the electronic ticket number, empty when unknown
	ETicketNumber string `json:"eTicketNumber,omitempty"`

	// PurchaseDate is the booking purchase date, empty when unknown
	PurchaseDate string `json:"purchaseDate,omitempty"`

	// TotalCost is the total booking cost; 0 means unknown
	TotalCost float64 `json:"totalCost,omitempty"`

	// Currency is the ISO 4217 currency code for TotalCost
	Currency string `json:"currency,omitempty"`

	// Flights is the flat, unordered leg list
	Flights []FlightLeg `json:"flights"`
}

// Legs returns a copy of the extraction's legs with booking-level metadata
// stamped onto each one: confirmation and e-ticket numbers, and an even split
// of the total cost (the extraction reports cost per booking, not per leg).
func (b *BookingExtraction) Legs() []FlightLeg {
	legs := make([]FlightLeg, len(b.Flights))
	copy(legs, b.Flights)

	var costPerLeg *float64
	if b.TotalCost != 0 && len(legs) > 0 {
		share := b.TotalCost / float64(len(legs))
		costPerLeg = &share
	}

	for i := range legs {
		if legs[i].ConfirmationNumber == "" {
			legs[i].ConfirmationNumber = b.ConfirmationNumber
		}
		if legs[i].ETicketNumber == "" {
			legs[i].ETicketNumber = b.ETicketNumber
		}
		if legs[i].Cost == nil {
			legs[i].Cost = costPerLeg
		}
		if legs[i].Currency == "" {
			legs[i].Currency = b.Currency
		}
	}
	return legs
}
