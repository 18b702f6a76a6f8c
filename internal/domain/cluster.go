package domain

import (
	"fmt"
	"time"
)

// Cluster is a journey: a maximal chain of flight legs where no inter-leg gap
// exceeds the configured threshold. Clusters are derived, ephemeral values;
// they are computed fresh on every invocation and never persisted. A cluster
// exclusively owns its legs, and the legs are sorted ascending by departure
// instant.
type Cluster struct {
	// Legs is the ordered leg sequence; never empty
	Legs []FlightLeg `json:"legs"`

	// StartLocation is the first leg's departure city (or airport code)
	StartLocation string `json:"startLocation"`

	// EndLocation is the last leg's arrival city (or airport code)
	EndLocation string `json:"endLocation"`

	// StartTime is the first leg's departure instant
	StartTime time.Time `json:"startTime"`

	// EndTime is the last leg's arrival instant
	EndTime time.Time `json:"endTime"`
}

// Span is the total duration covered by the cluster.
func (c *Cluster) Span() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// IsRoundTrip reports whether the journey starts and ends at the same
// location, which changes how a suggested segment is named.
func (c *Cluster) IsRoundTrip() bool {
	return c.StartLocation == c.EndLocation
}

// MatchesSegmentWindow reports whether an existing segment covers exactly the
// same journey tuple as this cluster. Used to avoid creating a duplicate
// segment when the same booking is applied twice.
func (c *Cluster) MatchesSegmentWindow(s *Segment) bool {
	if s.StartTime == nil || s.EndTime == nil {
		return false
	}
	return s.StartTitle == c.StartLocation &&
		s.EndTitle == c.EndLocation &&
		s.StartTime.Equal(c.StartTime) &&
		s.EndTime.Equal(c.EndTime)
}

// Summary returns a short human-readable description for logs,
// e.g. "SFO → HND (2 legs, Jul 15 10:00 – Jul 16 21:00)".
func (c *Cluster) Summary() string {
	return fmt.Sprintf("%s → %s (%d legs, %s – %s)",
		c.StartLocation, c.EndLocation, len(c.Legs),
		c.StartTime.Format("Jan 2 15:04"), c.EndTime.Format("Jan 2 15:04"))
}
