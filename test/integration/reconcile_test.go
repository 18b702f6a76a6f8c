package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/tripdesk/flight-reconciliation-service/internal/adapter/http"
	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/store/memory"
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/test/mock"
	"github.com/tripdesk/flight-reconciliation-service/test/testutil"
)

func TestHealth(t *testing.T) {
	ts, _ := NewTestServer()

	resp := ts.HealthRequest()
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestPreviewThenApply(t *testing.T) {
	ts, store := NewTestServer()
	trip := SeedJapanTrip(store)

	// Preview: the two legs chain into one SFO -> Tokyo cluster matching
	// the seeded segment.
	resp := ts.PreviewRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	preview, err := resp.ParsePreviewResponse()
	require.NoError(t, err)
	require.Len(t, preview.Clusters, 1)

	cluster := preview.Clusters[0]
	assert.Equal(t, "San Francisco, CA, US", cluster.Cluster.StartLocation)
	assert.Equal(t, "Tokyo, JP", cluster.Cluster.EndLocation)
	assert.Len(t, cluster.Cluster.Flights, 2)
	require.NotNil(t, cluster.Match)
	assert.Equal(t, trip.Segments[0].ID, cluster.Match.SegmentID)
	assert.Equal(t, "San Francisco → Tokyo", cluster.Match.SegmentName)
	assert.InDelta(t, 100.0, cluster.Match.Score, 1e-6)
	assert.Nil(t, cluster.Suggestion)
	assert.Equal(t, 1, preview.Summary.MatchedClusters)

	// Preview wrote nothing.
	assert.Equal(t, 0, store.ReservationCount(trip.Segments[0].ID))

	// Apply: the cluster attaches and both legs become reservations.
	resp = ts.ApplyRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	report, err := resp.ParseApplyResponse()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, string(domain.StatusAttached), report.Outcomes[0].Status)
	assert.Len(t, report.Outcomes[0].Reservations, 2)
	assert.Equal(t, 2, report.Summary.ReservationsCreated)
	assert.Equal(t, 2, store.ReservationCount(trip.Segments[0].ID))

	res := report.Outcomes[0].Reservations[0]
	assert.Equal(t, "United Airlines UA875", res.Name)
	assert.Equal(t, "ABC123", res.ConfirmationNumber)
	assert.Equal(t, "San Francisco, CA, US (SFO)", res.DepartureLocation)
}

func TestApply_ReApplyCreatesNothing(t *testing.T) {
	ts, store := NewTestServer()
	trip := SeedJapanTrip(store)

	resp := ts.ApplyRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.ApplyRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	report, err := resp.ParseApplyResponse()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, string(domain.StatusAttached), report.Outcomes[0].Status)
	assert.Empty(t, report.Outcomes[0].Reservations)
	assert.Equal(t, 2, report.Outcomes[0].SkippedLegs)
	assert.Equal(t, 2, store.ReservationCount(trip.Segments[0].ID))
}

func TestApply_CreatesSegmentForUnmatchedJourney(t *testing.T) {
	ts, store := NewTestServer()
	trip := store.SeedTrip(domain.Trip{Name: "Empty Trip"})

	resp := ts.ApplyRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	report, err := resp.ParseApplyResponse()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	outcome := report.Outcomes[0]
	assert.Equal(t, string(domain.StatusCreated), outcome.Status)
	require.NotNil(t, outcome.Suggestion)
	assert.Equal(t, "San Francisco, CA, US → Tokyo, JP", outcome.Suggestion.Name)
	require.NotEmpty(t, outcome.SegmentID)

	after, err := ts.Store.GetTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, after.Segments, 1)
	assert.Equal(t, outcome.SegmentID, after.Segments[0].ID)
	assert.Equal(t, 2, store.ReservationCount(outcome.SegmentID))
}

func TestApply_ManualModeTargetsSegment(t *testing.T) {
	ts, store := NewTestServer()
	trip := SeedJapanTrip(store)

	body := JapanBookingBody()
	body.Options = &httpAdapter.OptionsDTO{
		AutoCluster:     testutil.Ptr(false),
		TargetSegmentID: trip.Segments[0].ID,
	}

	resp := ts.ApplyRequest(trip.ID, body)
	require.Equal(t, http.StatusOK, resp.Code)

	report, err := resp.ParseApplyResponse()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, string(domain.StatusAttached), report.Outcomes[0].Status)
	assert.Equal(t, trip.Segments[0].ID, report.Outcomes[0].SegmentID)
	assert.Equal(t, 2, store.ReservationCount(trip.Segments[0].ID))
}

func TestApply_TripNotFound(t *testing.T) {
	ts, _ := NewTestServer()

	resp := ts.ApplyRequest("no-such-trip", JapanBookingBody())
	require.Equal(t, http.StatusNotFound, resp.Code)

	errResp, err := resp.ParseError()
	require.NoError(t, err)
	assert.Equal(t, "not_found", errResp["code"])
	assert.NotEmpty(t, errResp["message"])
}

func TestApply_EmptyFlightsRejected(t *testing.T) {
	ts, store := NewTestServer()
	trip := SeedJapanTrip(store)

	body := JapanBookingBody()
	body.Flights = nil

	resp := ts.ApplyRequest(trip.ID, body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, store.ReservationCount(trip.Segments[0].ID))
}

func TestPreview_ReportsMalformedLegs(t *testing.T) {
	ts, store := NewTestServer()
	trip := SeedJapanTrip(store)

	body := JapanBookingBody()
	body.Flights[1].DepartureDate = "not-a-date"

	resp := ts.PreviewRequest(trip.ID, body)
	require.Equal(t, http.StatusOK, resp.Code)

	preview, err := resp.ParsePreviewResponse()
	require.NoError(t, err)
	require.Len(t, preview.LegErrors, 1)
	assert.Equal(t, "NH820", preview.LegErrors[0].FlightNumber)
	assert.NotEmpty(t, preview.LegErrors[0].Reason)
	// The valid leg still forms a cluster.
	require.Len(t, preview.Clusters, 1)
	assert.Len(t, preview.Clusters[0].Cluster.Flights, 1)
}

// seededStore builds an in-memory store pre-seeded with the Japan trip, for
// wrapping in the configurable mock.
func seededStore() (*memory.Store, *domain.Trip) {
	store := memory.New()
	trip := SeedJapanTrip(store)
	return store, trip
}

func TestApply_StoreFailureReportedPerCluster(t *testing.T) {
	inner, trip := seededStore()
	flaky := mock.NewStore(inner).WithCreateReservationError(errors.New("write refused"))
	ts := NewTestServerWithStore(flaky)

	resp := ts.ApplyRequest(trip.ID, JapanBookingBody())
	require.Equal(t, http.StatusOK, resp.Code)

	report, err := resp.ParseApplyResponse()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, string(domain.StatusFailed), report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Reason, "write refused")
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestApply_StoreUnavailable(t *testing.T) {
	inner, trip := seededStore()
	flaky := mock.NewStore(inner).WithGetTripError(domain.ErrStoreUnavailable)
	ts := NewTestServerWithStore(flaky)

	resp := ts.ApplyRequest(trip.ID, JapanBookingBody())
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
