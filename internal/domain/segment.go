package domain

import "time"

// Segment is an existing logical block of a trip (e.g., "Paris Stay",
// "Flight to Tokyo"). Segments live in the external trip store; the engine
// only reads them and, for unmatched journeys, creates new ones.
type Segment struct {
	// ID uniquely identifies the segment in the trip store
	ID string `json:"id"`

	// Name is the segment's display name
	Name string `json:"name"`

	// StartTitle is the segment's starting location title
	StartTitle string `json:"startTitle"`

	// EndTitle is the segment's ending location title
	EndTitle string `json:"endTitle"`

	// StartTime is the segment's start instant; nil when the segment is undated
	StartTime *time.Time `json:"startTime,omitempty"`

	// EndTime is the segment's end instant; nil when the segment is undated
	EndTime *time.Time `json:"endTime,omitempty"`

	// Order is the segment's position within the trip (0-based, ascending)
	Order int `json:"order"`
}

// HasWindow reports whether the segment carries a usable time interval.
// Undated segments score zero temporal overlap.
func (s *Segment) HasWindow() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// Trip is the read-side view of a trip consumed from the external store.
type Trip struct {
	// ID uniquely identifies the trip
	ID string `json:"id"`

	// Name is the trip's display name
	Name string `json:"name,omitempty"`

	// Segments are the trip's segments ordered by Order ascending
	Segments []Segment `json:"segments"`
}

// MaxSegmentOrder returns the highest Order among the trip's segments, or -1
// for a trip with no segments. New segments are appended after it.
func (t *Trip) MaxSegmentOrder() int {
	max := -1
	for _, s := range t.Segments {
		if s.Order > max {
			max = s.Order
		}
	}
	return max
}

// Reservation is one persisted flight booking under a segment.
type Reservation struct {
	// ID uniquely identifies the reservation in the trip store
	ID string `json:"id"`

	// SegmentID is the owning segment
	SegmentID string `json:"segmentId"`

	// Name is the display name, e.g. "United Airlines UA875"
	Name string `json:"name"`

	// Carrier is the airline name, part of the idempotency key
	Carrier string `json:"carrier"`

	// FlightNumber is the flight number, part of the idempotency key
	FlightNumber string `json:"flightNumber"`

	// ConfirmationNumber is the booking code, part of the idempotency key
	ConfirmationNumber string `json:"confirmationNumber"`

	// StartTime is the departure instant
	StartTime time.Time `json:"startTime"`

	// EndTime is the arrival instant
	EndTime time.Time `json:"endTime"`

	// DepartureLocation is "City (APT)" as stored for display
	DepartureLocation string `json:"departureLocation,omitempty"`

	// ArrivalLocation is "City (APT)" as stored for display
	ArrivalLocation string `json:"arrivalLocation,omitempty"`

	// Cost is this reservation's share of the booking cost, if known
	Cost *float64 `json:"cost,omitempty"`

	// Currency is the ISO 4217 currency code for Cost
	Currency string `json:"currency,omitempty"`

	// Notes carries cabin/seat/e-ticket details, one per line
	Notes string `json:"notes,omitempty"`
}

// ReservationKey is the idempotency key that prevents duplicate reservation
// writes when the same booking email is re-processed.
type ReservationKey struct {
	Carrier            string
	FlightNumber       string
	ConfirmationNumber string
}

// Key returns the reservation's idempotency key.
func (r *Reservation) Key() ReservationKey {
	return ReservationKey{
		Carrier:            r.Carrier,
		FlightNumber:       r.FlightNumber,
		ConfirmationNumber: r.ConfirmationNumber,
	}
}
