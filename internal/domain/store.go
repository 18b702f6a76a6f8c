package domain

import "context"

//go:generate mockgen -source=store.go -destination=mock_store.go -package=domain

// TripStore is the engine's port onto the external persistence layer. The
// engine treats each write as atomic-or-failed and delegates transactional
// guarantees to the implementation; it performs no locking of its own.
type TripStore interface {
	// GetTrip loads a trip with its segments ordered by Order ascending.
	// Returns ErrTripNotFound (possibly wrapped) when the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (*Trip, error)

	// CreateSegment persists a new segment for the trip at the given order
	// and returns it with its store-assigned ID.
	CreateSegment(ctx context.Context, tripID string, suggestion SuggestedSegment, order int) (*Segment, error)

	// ListReservations returns all reservations currently under the segment.
	// Used for idempotency checks before attaching legs.
	ListReservations(ctx context.Context, segmentID string) ([]Reservation, error)

	// CreateReservation persists a reservation under its segment and returns
	// it with its store-assigned ID.
	CreateReservation(ctx context.Context, reservation Reservation) (*Reservation, error)
}
