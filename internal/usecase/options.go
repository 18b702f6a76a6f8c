package usecase

// Options controls one reconciliation run.
type Options struct {
	// AutoCluster enables the clustering engine. When false the engine is
	// bypassed entirely and all legs are attached to TargetSegmentID.
	AutoCluster bool

	// MaxGapHours is the chaining threshold; values <= 0 use the default (48).
	MaxGapHours float64

	// CreateSuggestedSegments allows the orchestrator to create new segments
	// for unmatched clusters. When false such clusters are skipped.
	CreateSuggestedSegments bool

	// TargetSegmentID is the manual-assignment target used when AutoCluster
	// is false. Required in that mode.
	TargetSegmentID string
}

// DefaultOptions returns the documented defaults: clustering on, 48-hour
// gap, suggested-segment creation enabled.
func DefaultOptions() Options {
	return Options{
		AutoCluster:             true,
		MaxGapHours:             DefaultMaxGapHours,
		CreateSuggestedSegments: true,
	}
}
