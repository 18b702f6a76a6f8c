package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

func seedTestTrip(t *testing.T, s *Store) *domain.Trip {
	t.Helper()

	start := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	return s.SeedTrip(domain.Trip{
		Name: "Japan Summer",
		Segments: []domain.Segment{
			{Name: "San Francisco → Tokyo", StartTitle: "San Francisco", EndTitle: "Tokyo", StartTime: &start, EndTime: &end, Order: 0},
		},
	})
}

func TestStore_GetTrip(t *testing.T) {
	s := New()
	trip := seedTestTrip(t, s)

	got, err := s.GetTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, "Japan Summer", got.Name)
	require.Len(t, got.Segments, 1)
	assert.Equal(t, "San Francisco → Tokyo", got.Segments[0].Name)
}

func TestStore_GetTrip_NotFound(t *testing.T) {
	s := New()

	_, err := s.GetTrip(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestStore_GetTrip_ReturnsCopy(t *testing.T) {
	s := New()
	trip := seedTestTrip(t, s)

	got, err := s.GetTrip(context.Background(), trip.ID)
	require.NoError(t, err)

	got.Segments[0].Name = "mutated"

	again, err := s.GetTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "San Francisco → Tokyo", again.Segments[0].Name)
}

func TestStore_CreateSegment(t *testing.T) {
	s := New()
	trip := seedTestTrip(t, s)

	suggestion := domain.SuggestedSegment{
		Name:          "Tokyo → Osaka",
		StartLocation: "Tokyo",
		EndLocation:   "Osaka",
		StartTime:     time.Date(2025, 7, 17, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, 7, 17, 12, 0, 0, 0, time.UTC),
	}

	seg, err := s.CreateSegment(context.Background(), trip.ID, suggestion, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, seg.ID)
	assert.Equal(t, "Tokyo → Osaka", seg.Name)
	assert.Equal(t, "Tokyo", seg.StartTitle)
	assert.Equal(t, 1, seg.Order)

	got, err := s.GetTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Len(t, got.Segments, 2)
}

func TestStore_CreateSegment_TripNotFound(t *testing.T) {
	s := New()

	_, err := s.CreateSegment(context.Background(), "missing", domain.SuggestedSegment{Name: "x"}, 0)
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestStore_Reservations(t *testing.T) {
	s := New()
	trip := seedTestTrip(t, s)
	segID := trip.Segments[0].ID

	list, err := s.ListReservations(context.Background(), segID)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := s.CreateReservation(context.Background(), domain.Reservation{
		SegmentID:          segID,
		Name:               "United Airlines UA875",
		Carrier:            "United Airlines",
		FlightNumber:       "UA875",
		ConfirmationNumber: "ABC123",
		StartTime:          time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
		EndTime:            time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list, err = s.ListReservations(context.Background(), segID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "UA875", list[0].FlightNumber)
	assert.Equal(t, 1, s.ReservationCount(segID))
}

func TestStore_Reservations_UnknownSegment(t *testing.T) {
	s := New()

	_, err := s.ListReservations(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSegmentNotFound)

	_, err = s.CreateReservation(context.Background(), domain.Reservation{SegmentID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSegmentNotFound)
}

func TestStore_ContextCancelled(t *testing.T) {
	s := New()
	trip := seedTestTrip(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, context.Canceled)
}
