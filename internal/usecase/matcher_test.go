package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

func tp(t time.Time) *time.Time { return &t }

func matchTestCluster() domain.Cluster {
	return domain.Cluster{
		StartLocation: "San Francisco, CA, US",
		EndLocation:   "Tokyo, JP",
		StartTime:     time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC),
	}
}

func segment(id, start, end string, order int, from, to time.Time) domain.Segment {
	return domain.Segment{
		ID:         id,
		Name:       start + " → " + end,
		StartTitle: start,
		EndTitle:   end,
		StartTime:  tp(from),
		EndTime:    tp(to),
		Order:      order,
	}
}

func TestMatchCluster_PerfectMatch(t *testing.T) {
	cluster := matchTestCluster()
	seg := segment("seg-1", "San Francisco", "Tokyo", 0,
		time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))

	result := MatchCluster(cluster, []domain.Segment{seg})

	require.NotNil(t, result)
	assert.Equal(t, "seg-1", result.SegmentID)
	assert.InDelta(t, 100.0, result.Score, 1e-6)
	assert.InDelta(t, 1.0, result.LocationScore, 1e-6)
	assert.InDelta(t, 1.0, result.TemporalScore, 1e-6)
}

func TestMatchCluster_NoSegments(t *testing.T) {
	assert.Nil(t, MatchCluster(matchTestCluster(), nil))
}

func TestMatchCluster_BelowThreshold(t *testing.T) {
	cluster := matchTestCluster()
	// Unrelated place, non-overlapping dates: both terms near zero.
	seg := segment("seg-1", "Reykjavik", "Oslo", 0,
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC))

	assert.Nil(t, MatchCluster(cluster, []domain.Segment{seg}))
}

func TestMatchCluster_AtThresholdAccepted(t *testing.T) {
	cluster := matchTestCluster()
	// Exact locations, no time window: score = 100 * 0.5 * 1.0 = 50.
	seg := domain.Segment{
		ID:         "seg-1",
		Name:       "SF to Tokyo",
		StartTitle: "San Francisco, CA, US",
		EndTitle:   "Tokyo, JP",
	}

	result := MatchCluster(cluster, []domain.Segment{seg})

	require.NotNil(t, result)
	assert.InDelta(t, 50.0, result.Score, 1e-6)
	assert.Zero(t, result.TemporalScore)
}

func TestMatchCluster_UndatedSegmentTemporalZero(t *testing.T) {
	cluster := matchTestCluster()
	undated := domain.Segment{ID: "u", StartTitle: "San Francisco", EndTitle: "Tokyo"}
	dated := segment("d", "San Francisco", "Tokyo", 1,
		time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))

	result := MatchCluster(cluster, []domain.Segment{undated, dated})

	require.NotNil(t, result)
	assert.Equal(t, "d", result.SegmentID)
}

func TestMatchCluster_PartialTemporalOverlap(t *testing.T) {
	cluster := matchTestCluster() // 28h span
	// Segment covers only the first 14 hours of the cluster.
	seg := segment("seg-1", "San Francisco", "Tokyo", 0,
		time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC))

	result := MatchCluster(cluster, []domain.Segment{seg})

	require.NotNil(t, result)
	assert.InDelta(t, 0.5, result.TemporalScore, 1e-6)
	assert.InDelta(t, 75.0, result.Score, 1e-6)
}

func TestMatchCluster_TieBreakPrefersTemporal(t *testing.T) {
	// Both segments score identically overall but split the terms
	// differently; the one with higher temporal overlap wins.
	cluster := matchTestCluster()

	fullWindow := domain.Segment{
		ID:        "temporal",
		StartTime: tp(time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)),
		EndTime:   tp(time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)),
		Order:     5,
	}
	locationOnly := domain.Segment{
		ID:         "location",
		StartTitle: "San Francisco, CA, US",
		EndTitle:   "Tokyo, JP",
		Order:      0,
	}

	a := MatchCluster(cluster, []domain.Segment{fullWindow, locationOnly})
	b := MatchCluster(cluster, []domain.Segment{locationOnly, fullWindow})

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, "temporal", a.SegmentID)
	assert.Equal(t, a.SegmentID, b.SegmentID)
}

func TestMatchCluster_TieBreakPrefersEarlierOrder(t *testing.T) {
	cluster := matchTestCluster()
	window := segment("later", "San Francisco", "Tokyo", 3,
		time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))
	duplicate := window
	duplicate.ID = "earlier"
	duplicate.Order = 1

	a := MatchCluster(cluster, []domain.Segment{window, duplicate})
	b := MatchCluster(cluster, []domain.Segment{duplicate, window})

	require.NotNil(t, a)
	assert.Equal(t, "earlier", a.SegmentID)
	assert.Equal(t, "earlier", b.SegmentID)
}

func TestTemporalOverlap_InstantCluster(t *testing.T) {
	instant := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	cluster := domain.Cluster{StartTime: instant, EndTime: instant}

	inside := segment("s", "A", "B", 0,
		time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, 1.0, temporalOverlap(cluster, inside), 1e-9)

	outside := segment("s", "A", "B", 0,
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, temporalOverlap(cluster, outside))
}

func TestLocationScore_Averages(t *testing.T) {
	cluster := matchTestCluster()
	// Start matches exactly, end is unrelated, so the average sits near 0.5.
	seg := domain.Segment{StartTitle: "San Francisco, CA, US", EndTitle: "Reykjavik"}

	got := locationScore(cluster, seg)
	assert.Greater(t, got, 0.45)
	assert.Less(t, got, 0.65)
}
