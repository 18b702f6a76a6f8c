package usecase

import (
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// BuildPreview is the pure, write-free half of the pipeline: it clusters the
// legs and pairs every cluster with its best match or, failing that, a
// suggested segment. The candidate pool shrinks as clusters claim segments,
// exactly as Apply would process them, so the preview is faithful to what a
// commit will do.
func BuildPreview(trip *domain.Trip, legs []domain.FlightLeg, maxGapHours float64) *domain.Preview {
	clusters, legErrors := ClusterLegs(legs, maxGapHours)

	preview := &domain.Preview{LegErrors: legErrors}
	preview.Summary.TotalClusters = len(clusters)

	pool := make([]domain.Segment, len(trip.Segments))
	copy(pool, trip.Segments)
	knownNames := segmentNames(trip.Segments)

	for _, cluster := range clusters {
		preview.Summary.TotalFlights += len(cluster.Legs)
		entry := domain.ClusterPreview{Cluster: cluster}

		if match := MatchCluster(cluster, pool); match != nil {
			removeSegmentByID(&pool, match.SegmentID)
			entry.Match = match
			preview.Summary.MatchedClusters++
		} else {
			suggestion := SuggestSegmentNamed(cluster, knownNames)
			knownNames = append(knownNames, suggestion.Name)
			entry.Suggestion = &suggestion
			preview.Summary.SuggestedClusters++
		}

		preview.Clusters = append(preview.Clusters, entry)
	}

	return preview
}
