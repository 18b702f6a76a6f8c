package usecase

import (
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// Matching weights. The sum equals 1.0 so the final score maps cleanly onto
// the 0-100 scale.
const (
	// weightLocation is the weight of the location-similarity term.
	weightLocation = 0.5

	// weightTemporal is the weight of the temporal-overlap term.
	weightTemporal = 0.5
)

// MatchAcceptanceThreshold is the minimum score (0-100) for a MatchResult to
// be accepted. Anything below it falls through to segment suggestion.
const MatchAcceptanceThreshold = 50.0

// scoreEpsilon guards float comparisons when resolving score ties.
const scoreEpsilon = 1e-9

// candidate tracks the running best segment during evaluation, keeping the
// raw terms around for the tie-break rules.
type candidate struct {
	segment  domain.Segment
	location float64
	temporal float64
	score    float64
}

// MatchCluster evaluates every candidate segment against the cluster and
// returns the best match, or nil when no segment clears the acceptance
// threshold.
//
// Scoring (all terms clamped to [0, 1] before weighting):
//   - location: average of TextSimilarity(cluster.StartLocation,
//     segment.StartTitle) and TextSimilarity(cluster.EndLocation,
//     segment.EndTitle)
//   - temporal: fraction of the cluster's interval that falls inside the
//     segment's interval; 0 for undated or non-intersecting segments
//
// score = 100 * (0.5*location + 0.5*temporal)
//
// Ties on equal top score prefer the segment with greater temporal overlap,
// then the one with the smaller order index (earliest in the trip). The
// result is deterministic for any input order of segments.
func MatchCluster(cluster domain.Cluster, segments []domain.Segment) *domain.MatchResult {
	var best *candidate

	for _, segment := range segments {
		location := locationScore(cluster, segment)
		temporal := temporalOverlap(cluster, segment)
		score := 100 * (weightLocation*location + weightTemporal*temporal)

		c := candidate{segment: segment, location: location, temporal: temporal, score: score}
		if best == nil || beats(c, *best) {
			bestCopy := c
			best = &bestCopy
		}
	}

	if best == nil || best.score < MatchAcceptanceThreshold {
		return nil
	}

	return &domain.MatchResult{
		SegmentID:     best.segment.ID,
		SegmentName:   best.segment.Name,
		Score:         best.score,
		LocationScore: best.location,
		TemporalScore: best.temporal,
	}
}

// beats reports whether candidate a should replace the current best b.
func beats(a, b candidate) bool {
	if a.score > b.score+scoreEpsilon {
		return true
	}
	if a.score < b.score-scoreEpsilon {
		return false
	}
	// Equal top score: greater temporal overlap wins.
	if a.temporal > b.temporal+scoreEpsilon {
		return true
	}
	if a.temporal < b.temporal-scoreEpsilon {
		return false
	}
	// Still tied: earliest segment in the trip wins.
	return a.segment.Order < b.segment.Order
}

// locationScore averages the similarity of the cluster's endpoints against
// the segment's titles.
func locationScore(cluster domain.Cluster, segment domain.Segment) float64 {
	start := TextSimilarity(cluster.StartLocation, segment.StartTitle)
	end := TextSimilarity(cluster.EndLocation, segment.EndTitle)
	return clamp01((start + end) / 2)
}

// temporalOverlap returns the fraction of the cluster's [StartTime, EndTime]
// interval that falls within the segment's interval. Segments without a time
// window score 0. A zero-length cluster interval counts as fully contained
// when its instant lies inside the segment window.
func temporalOverlap(cluster domain.Cluster, segment domain.Segment) float64 {
	if !segment.HasWindow() {
		return 0
	}

	segStart := *segment.StartTime
	segEnd := *segment.EndTime

	overlapStart := cluster.StartTime
	if segStart.After(overlapStart) {
		overlapStart = segStart
	}
	overlapEnd := cluster.EndTime
	if segEnd.Before(overlapEnd) {
		overlapEnd = segEnd
	}

	overlap := overlapEnd.Sub(overlapStart)
	if overlap < 0 {
		return 0
	}

	clusterLen := cluster.EndTime.Sub(cluster.StartTime)
	if clusterLen == 0 {
		// Degenerate instant-sized cluster: inside the window or not.
		if !cluster.StartTime.Before(segStart) && !cluster.StartTime.After(segEnd) {
			return 1
		}
		return 0
	}

	return clamp01(float64(overlap) / float64(clusterLen))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
