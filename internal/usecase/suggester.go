package usecase

import (
	"fmt"
	"strings"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// SuggestSegment proposes a new segment for a cluster that matched no
// existing segment. It always succeeds for a non-empty cluster.
//
// The name follows the template "{start} → {end}", or "{start} Round Trip"
// when the journey returns to its origin. A collision with an existing
// segment name is disambiguated by appending a numeric suffix: "Name (2)",
// "Name (3)", first free counter. Locations and times copy the cluster's
// values verbatim.
func SuggestSegment(cluster domain.Cluster, existing []domain.Segment) domain.SuggestedSegment {
	names := make([]string, len(existing))
	for i, s := range existing {
		names[i] = s.Name
	}
	return SuggestSegmentNamed(cluster, names)
}

// SuggestSegmentNamed is SuggestSegment against a plain name list. The
// orchestrator uses it to include segments created earlier in the same run.
func SuggestSegmentNamed(cluster domain.Cluster, existingNames []string) domain.SuggestedSegment {
	base := cluster.StartLocation + " → " + cluster.EndLocation
	if cluster.IsRoundTrip() {
		base = cluster.StartLocation + " Round Trip"
	}

	return domain.SuggestedSegment{
		Name:          disambiguateName(base, existingNames),
		StartLocation: cluster.StartLocation,
		EndLocation:   cluster.EndLocation,
		StartTime:     cluster.StartTime,
		EndTime:       cluster.EndTime,
	}
}

// disambiguateName appends " (n)" to base until it no longer collides with
// an existing name. Comparison is case-insensitive.
func disambiguateName(base string, existingNames []string) string {
	taken := make(map[string]struct{}, len(existingNames))
	for _, n := range existingNames {
		taken[strings.ToLower(n)] = struct{}{}
	}

	if _, collides := taken[strings.ToLower(base)]; !collides {
		return base
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if _, collides := taken[strings.ToLower(candidate)]; !collides {
			return candidate
		}
	}
}
