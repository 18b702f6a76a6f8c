// Package mock provides test doubles for the reconciliation engine.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, call counting).
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// Store is a configurable mock implementation of domain.TripStore.
// It delegates to an inner store (usually the in-memory one) and layers
// configurable delays and errors on top, for testing timeout and
// failure-isolation scenarios.
type Store struct {
	inner domain.TripStore

	getTripErr           error
	createSegmentErr     error
	listReservationsErr  error
	createReservationErr error
	delay                time.Duration

	mu        sync.Mutex
	callCount map[string]int
}

// NewStore creates a mock store wrapping the given inner store.
// The store is configured using the builder pattern methods.
func NewStore(inner domain.TripStore) *Store {
	return &Store{
		inner:     inner,
		callCount: make(map[string]int),
	}
}

// WithGetTripError makes GetTrip fail with the given error.
func (s *Store) WithGetTripError(err error) *Store {
	s.getTripErr = err
	return s
}

// WithCreateSegmentError makes CreateSegment fail with the given error.
func (s *Store) WithCreateSegmentError(err error) *Store {
	s.createSegmentErr = err
	return s
}

// WithListReservationsError makes ListReservations fail with the given error.
func (s *Store) WithListReservationsError(err error) *Store {
	s.listReservationsErr = err
	return s
}

// WithCreateReservationError makes CreateReservation fail with the given error.
func (s *Store) WithCreateReservationError(err error) *Store {
	s.createReservationErr = err
	return s
}

// WithDelay adds a delay before every operation, respecting context
// cancellation. Useful for timeout tests.
func (s *Store) WithDelay(d time.Duration) *Store {
	s.delay = d
	return s
}

// CallCount returns how many times the named operation was invoked.
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount[op]
}

func (s *Store) before(ctx context.Context, op string) error {
	s.mu.Lock()
	s.callCount[op]++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// GetTrip implements domain.TripStore.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if err := s.before(ctx, "GetTrip"); err != nil {
		return nil, err
	}
	if s.getTripErr != nil {
		return nil, s.getTripErr
	}
	return s.inner.GetTrip(ctx, tripID)
}

// CreateSegment implements domain.TripStore.
func (s *Store) CreateSegment(ctx context.Context, tripID string, suggestion domain.SuggestedSegment, order int) (*domain.Segment, error) {
	if err := s.before(ctx, "CreateSegment"); err != nil {
		return nil, err
	}
	if s.createSegmentErr != nil {
		return nil, s.createSegmentErr
	}
	return s.inner.CreateSegment(ctx, tripID, suggestion, order)
}

// ListReservations implements domain.TripStore.
func (s *Store) ListReservations(ctx context.Context, segmentID string) ([]domain.Reservation, error) {
	if err := s.before(ctx, "ListReservations"); err != nil {
		return nil, err
	}
	if s.listReservationsErr != nil {
		return nil, s.listReservationsErr
	}
	return s.inner.ListReservations(ctx, segmentID)
}

// CreateReservation implements domain.TripStore.
func (s *Store) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	if err := s.before(ctx, "CreateReservation"); err != nil {
		return nil, err
	}
	if s.createReservationErr != nil {
		return nil, s.createReservationErr
	}
	return s.inner.CreateReservation(ctx, reservation)
}

var _ domain.TripStore = (*Store)(nil)
