// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"testing"
	"time"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// NewLeg builds a flight leg from compact "YYYY-MM-DD HH:MM" departure and
// arrival stamps. It panics on malformed stamps; tests always pass literals.
func NewLeg(flightNumber, from, to, departure, arrival string) domain.FlightLeg {
	if len(departure) < 16 || len(arrival) < 16 {
		panic("testutil: leg stamps must be \"YYYY-MM-DD HH:MM\"")
	}
	return domain.FlightLeg{
		FlightNumber:     flightNumber,
		DepartureAirport: from,
		DepartureDate:    departure[:10],
		DepartureTime:    departure[11:],
		ArrivalAirport:   to,
		ArrivalDate:      arrival[:10],
		ArrivalTime:      arrival[11:],
	}
}

// NewBooking wraps legs in a booking extraction with the given confirmation
// number.
func NewBooking(confirmationNumber string, legs ...domain.FlightLeg) domain.BookingExtraction {
	return domain.BookingExtraction{
		ConfirmationNumber: confirmationNumber,
		Flights:            legs,
	}
}

// NewSegment builds a trip segment with a time window.
func NewSegment(name, startTitle, endTitle string, start, end time.Time, order int) domain.Segment {
	return domain.Segment{
		Name:       name,
		StartTitle: startTitle,
		EndTitle:   endTitle,
		StartTime:  &start,
		EndTime:    &end,
		Order:      order,
	}
}
