package domain

import "time"

// MatchResult is the best existing segment found for a cluster, with its
// score on the 0-100 scale. At most one MatchResult exists per cluster, and
// within a single batch a segment is matched by at most one cluster.
type MatchResult struct {
	// SegmentID identifies the matched segment
	SegmentID string `json:"segmentId"`

	// SegmentName is the matched segment's display name
	SegmentName string `json:"segmentName"`

	// Score is the weighted blend of location and temporal scores (0-100)
	Score float64 `json:"score"`

	// LocationScore is the location term before weighting (0-1)
	LocationScore float64 `json:"locationScore"`

	// TemporalScore is the temporal-overlap term before weighting (0-1)
	TemporalScore float64 `json:"temporalScore"`
}

// SuggestedSegment describes the new segment proposed for a cluster that
// matched no existing segment. Suggestion never fails for a non-empty cluster.
type SuggestedSegment struct {
	// Name is the generated segment name (disambiguated against existing names)
	Name string `json:"name"`

	// StartLocation copies the cluster's start location verbatim
	StartLocation string `json:"startLocation"`

	// EndLocation copies the cluster's end location verbatim
	EndLocation string `json:"endLocation"`

	// StartTime copies the cluster's start instant
	StartTime time.Time `json:"startTime"`

	// EndTime copies the cluster's end instant
	EndTime time.Time `json:"endTime"`
}

// OutcomeStatus is the terminal state of a cluster after orchestration.
type OutcomeStatus string

// Terminal cluster states. There are no automatic retries; a caller wanting
// another attempt re-invokes the whole pipeline, which re-derives clusters.
const (
	// StatusAttached means the cluster's legs were attached to an existing segment
	StatusAttached OutcomeStatus = "attached"

	// StatusCreated means a new segment was created and the legs attached to it
	StatusCreated OutcomeStatus = "created"

	// StatusSkipped means no segment matched and creation was disabled
	StatusSkipped OutcomeStatus = "skipped"

	// StatusFailed means a persistence error occurred for this cluster
	StatusFailed OutcomeStatus = "failed"
)

// ClusterOutcome is the per-cluster result of an apply run. Exactly one of
// Match or Suggestion is set for attached/created outcomes; failed outcomes
// carry the error in Reason.
type ClusterOutcome struct {
	// Cluster is the journey this outcome describes
	Cluster Cluster `json:"cluster"`

	// Match is set when the cluster was matched to an existing segment
	Match *MatchResult `json:"match,omitempty"`

	// Suggestion is set when a new segment was proposed for the cluster
	Suggestion *SuggestedSegment `json:"suggestion,omitempty"`

	// Status is the cluster's terminal state
	Status OutcomeStatus `json:"status"`

	// Reason explains skipped and failed outcomes
	Reason string `json:"reason,omitempty"`

	// SegmentID is the segment the legs ended up under (attached/created)
	SegmentID string `json:"segmentId,omitempty"`

	// Reservations are the reservations written for this cluster.
	// Legs already present under the segment are not re-created and do not
	// appear here.
	Reservations []Reservation `json:"reservations,omitempty"`

	// SkippedLegs counts legs skipped because an identical reservation
	// already existed (idempotent re-apply)
	SkippedLegs int `json:"skippedLegs,omitempty"`
}

// LegError reports one malformed leg excluded from clustering. Malformed
// legs never abort the run; they are collected into a parallel error list.
type LegError struct {
	// Leg is the offending leg
	Leg FlightLeg `json:"leg"`

	// Reason describes why the leg was rejected
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *LegError) Error() string {
	return "leg " + e.Leg.FlightNumber + ": " + e.Reason
}

// PreviewSummary aggregates a preview run for the caller's UI.
type PreviewSummary struct {
	// TotalFlights is the number of valid legs clustered
	TotalFlights int `json:"totalFlights"`

	// TotalClusters is the number of journeys derived
	TotalClusters int `json:"totalClusters"`

	// MatchedClusters is the number of clusters matched to existing segments
	MatchedClusters int `json:"matchedClusters"`

	// SuggestedClusters is the number of clusters falling through to suggestions
	SuggestedClusters int `json:"suggestedClusters"`
}

// ClusterPreview pairs a cluster with its match-or-suggestion before commit.
type ClusterPreview struct {
	Cluster    Cluster           `json:"cluster"`
	Match      *MatchResult      `json:"match,omitempty"`
	Suggestion *SuggestedSegment `json:"suggestion,omitempty"`
}

// Preview is the pre-commit structure shown to the caller. It is plain,
// serializable data with no embedded behavior.
type Preview struct {
	Clusters  []ClusterPreview `json:"clusters"`
	Summary   PreviewSummary   `json:"summary"`
	LegErrors []LegError       `json:"legErrors,omitempty"`
}

// ApplySummary aggregates an apply run.
type ApplySummary struct {
	TotalFlights        int `json:"totalFlights"`
	TotalClusters       int `json:"totalClusters"`
	Attached            int `json:"attached"`
	Created             int `json:"created"`
	Skipped             int `json:"skipped"`
	Failed              int `json:"failed"`
	ReservationsCreated int `json:"reservationsCreated"`
	ReservationsSkipped int `json:"reservationsSkipped"`
}

// ApplyReport is the post-commit structure returned to the caller.
type ApplyReport struct {
	Outcomes  []ClusterOutcome `json:"outcomes"`
	Summary   ApplySummary     `json:"summary"`
	LegErrors []LegError       `json:"legErrors,omitempty"`
}
