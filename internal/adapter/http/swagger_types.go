// Package http provides swagger type definitions for API documentation.
// These types mirror domain types but are defined here to help swag generate proper documentation.
package http

// SwaggerPreviewResponse represents the preview API response for swagger documentation.
// @Description Derived clusters with their matches or suggested segments
type SwaggerPreviewResponse struct {
	// Clusters contains the derived journeys and their resolution
	Clusters []SwaggerClusterPreview `json:"clusters"`

	// Summary aggregates the preview run
	Summary SwaggerPreviewSummary `json:"summary"`

	// LegErrors lists legs excluded from clustering
	LegErrors []SwaggerLegError `json:"leg_errors,omitempty"`
}

// SwaggerClusterPreview pairs a cluster with its match or suggestion.
// @Description One cluster and how it would be reconciled
type SwaggerClusterPreview struct {
	// Cluster is the derived journey
	Cluster SwaggerCluster `json:"cluster"`

	// Match is set when an existing segment scored above the threshold
	Match *SwaggerMatchResult `json:"match,omitempty"`

	// Suggestion is set when a new segment would be created
	Suggestion *SwaggerSuggestedSegment `json:"suggestion,omitempty"`
}

// SwaggerCluster represents one derived journey.
// @Description A chain of time-adjacent flight legs
type SwaggerCluster struct {
	// StartLocation is the first leg's departure location
	StartLocation string `json:"start_location" example:"San Francisco, CA, US"`

	// EndLocation is the last leg's arrival location
	EndLocation string `json:"end_location" example:"Tokyo, JP"`

	// StartTime is the first departure instant
	StartTime string `json:"start_time" example:"2025-07-15T10:00:00Z"`

	// EndTime is the last arrival instant
	EndTime string `json:"end_time" example:"2025-07-16T14:00:00Z"`

	// RoundTrip indicates the journey ends where it started
	RoundTrip bool `json:"round_trip" example:"false"`
}

// SwaggerMatchResult represents the best matching segment.
// @Description Best existing segment for a cluster with its score
type SwaggerMatchResult struct {
	// SegmentID identifies the matched segment
	SegmentID string `json:"segment_id" example:"seg-42"`

	// SegmentName is the matched segment's display name
	SegmentName string `json:"segment_name" example:"San Francisco → Tokyo"`

	// Score is the weighted blend of location and temporal scores (0-100)
	Score float64 `json:"score" example:"87.5"`
}

// SwaggerSuggestedSegment represents a proposed new segment.
// @Description Segment proposed for an unmatched cluster
type SwaggerSuggestedSegment struct {
	// Name is the generated segment name
	Name string `json:"name" example:"San Francisco → Tokyo"`

	// StartLocation copies the cluster's start location
	StartLocation string `json:"start_location" example:"San Francisco, CA, US"`

	// EndLocation copies the cluster's end location
	EndLocation string `json:"end_location" example:"Tokyo, JP"`
}

// SwaggerLegError reports one malformed leg.
// @Description A leg excluded from clustering with the reason
type SwaggerLegError struct {
	// FlightNumber identifies the offending leg
	FlightNumber string `json:"flight_number" example:"UA875"`

	// Reason describes why the leg was rejected
	Reason string `json:"reason" example:"invalid departure: cannot parse instant"`
}

// SwaggerPreviewSummary aggregates a preview run.
// @Description Preview run counters
type SwaggerPreviewSummary struct {
	// TotalFlights is the number of valid legs clustered
	TotalFlights int `json:"total_flights" example:"4"`

	// TotalClusters is the number of journeys derived
	TotalClusters int `json:"total_clusters" example:"2"`

	// MatchedClusters is the number matched to existing segments
	MatchedClusters int `json:"matched_clusters" example:"1"`

	// SuggestedClusters is the number falling through to suggestions
	SuggestedClusters int `json:"suggested_clusters" example:"1"`
}

// SwaggerErrorResponse represents an error response.
// @Description Error response from the API
type SwaggerErrorResponse struct {
	// Success is always false for error responses
	Success bool `json:"success" example:"false"`

	// Error contains error details
	Error SwaggerErrorDetail `json:"error"`
}

// SwaggerErrorDetail contains structured error information.
// @Description Error details
type SwaggerErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code" example:"validation_error"`

	// Message is a human-readable error message
	Message string `json:"message" example:"Request validation failed"`

	// Details contains field-specific error details
	Details map[string]string `json:"details,omitempty"`
}
