// Package memory provides an in-memory TripStore implementation.
// It backs local development and tests; data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// Store is a thread-safe in-memory implementation of domain.TripStore.
type Store struct {
	mu           sync.RWMutex
	trips        map[string]*domain.Trip
	reservations map[string][]domain.Reservation // keyed by segment ID
	segmentTrips map[string]string               // segment ID -> owning trip ID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		trips:        make(map[string]*domain.Trip),
		reservations: make(map[string][]domain.Reservation),
		segmentTrips: make(map[string]string),
	}
}

// SeedTrip inserts a trip and registers its segments. Existing data for the
// same trip ID is replaced. Segments without an ID are assigned one.
func (s *Store) SeedTrip(trip domain.Trip) *domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	for i := range trip.Segments {
		if trip.Segments[i].ID == "" {
			trip.Segments[i].ID = uuid.NewString()
		}
		s.segmentTrips[trip.Segments[i].ID] = trip.ID
		if _, ok := s.reservations[trip.Segments[i].ID]; !ok {
			s.reservations[trip.Segments[i].ID] = nil
		}
	}

	stored := copyTrip(&trip)
	s.trips[trip.ID] = stored
	return copyTrip(stored)
}

// SeedReservation attaches an existing reservation to a segment. Used by
// tests to pre-populate duplicate-detection state.
func (s *Store) SeedReservation(segmentID string, r domain.Reservation) domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.SegmentID = segmentID
	s.reservations[segmentID] = append(s.reservations[segmentID], r)
	return r
}

// GetTrip returns a copy of the trip with its segments ordered as stored.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	trip, ok := s.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %q: %w", tripID, domain.ErrTripNotFound)
	}
	return copyTrip(trip), nil
}

// CreateSegment appends a new segment to the trip at the given order.
func (s *Store) CreateSegment(ctx context.Context, tripID string, suggestion domain.SuggestedSegment, order int) (*domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %q: %w", tripID, domain.ErrTripNotFound)
	}

	startTime := suggestion.StartTime
	endTime := suggestion.EndTime
	seg := domain.Segment{
		ID:         uuid.NewString(),
		Name:       suggestion.Name,
		StartTitle: suggestion.StartLocation,
		EndTitle:   suggestion.EndLocation,
		StartTime:  &startTime,
		EndTime:    &endTime,
		Order:      order,
	}

	trip.Segments = append(trip.Segments, seg)
	s.segmentTrips[seg.ID] = tripID
	s.reservations[seg.ID] = nil

	created := seg
	return &created, nil
}

// ListReservations returns copies of the reservations attached to a segment.
func (s *Store) ListReservations(ctx context.Context, segmentID string) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.segmentTrips[segmentID]; !ok {
		return nil, fmt.Errorf("segment %q: %w", segmentID, domain.ErrSegmentNotFound)
	}

	existing := s.reservations[segmentID]
	out := make([]domain.Reservation, len(existing))
	copy(out, existing)
	return out, nil
}

// CreateReservation stores a reservation against its segment and assigns an ID.
func (s *Store) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.segmentTrips[reservation.SegmentID]; !ok {
		return nil, fmt.Errorf("segment %q: %w", reservation.SegmentID, domain.ErrSegmentNotFound)
	}

	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	s.reservations[reservation.SegmentID] = append(s.reservations[reservation.SegmentID], reservation)

	created := reservation
	return &created, nil
}

// ReservationCount reports how many reservations a segment holds.
func (s *Store) ReservationCount(segmentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations[segmentID])
}

func copyTrip(trip *domain.Trip) *domain.Trip {
	out := *trip
	out.Segments = make([]domain.Segment, len(trip.Segments))
	copy(out.Segments, trip.Segments)
	return &out
}

var _ domain.TripStore = (*Store)(nil)
