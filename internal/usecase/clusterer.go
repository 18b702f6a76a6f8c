package usecase

import (
	"sort"
	"time"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

// DefaultMaxGapHours is the chaining threshold used when the caller does not
// supply one. Two legs less than two days apart are considered parts of the
// same journey (an overnight layover, a short stopover).
const DefaultMaxGapHours = 48.0

// timedLeg pairs a leg with its parsed instants so the walk below does not
// re-parse strings on every comparison.
type timedLeg struct {
	leg       domain.FlightLeg
	departure time.Time
	arrival   time.Time
}

// ClusterLegs groups a flat, unordered leg list into journeys using
// time-adjacency clustering.
//
// Algorithm:
//  1. Malformed legs (unparseable instants, departure >= arrival) are
//     excluded and reported in the returned error list; they never abort
//     the run.
//  2. Valid legs are sorted ascending by departure instant, ties broken by
//     flight number for determinism.
//  3. The sorted list is walked; a leg joins the current cluster when the
//     gap between the previous arrival and its departure does not exceed
//     maxGapHours. Negative gaps (overlapping same-day connections) count
//     as zero and always chain.
//
// Clusters are returned in chronological order of their first leg. A single
// leg forms a cluster of size 1. maxGapHours values <= 0 fall back to
// DefaultMaxGapHours.
func ClusterLegs(legs []domain.FlightLeg, maxGapHours float64) ([]domain.Cluster, []domain.LegError) {
	if maxGapHours <= 0 {
		maxGapHours = DefaultMaxGapHours
	}

	var legErrors []domain.LegError
	timed := make([]timedLeg, 0, len(legs))

	for _, leg := range legs {
		if err := leg.Validate(); err != nil {
			legErrors = append(legErrors, domain.LegError{Leg: leg, Reason: err.Error()})
			continue
		}
		dep, _ := leg.DepartureInstant()
		arr, _ := leg.ArrivalInstant()
		timed = append(timed, timedLeg{leg: leg, departure: dep, arrival: arr})
	}

	if len(timed) == 0 {
		return nil, legErrors
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].departure.Equal(timed[j].departure) {
			return timed[i].leg.FlightNumber < timed[j].leg.FlightNumber
		}
		return timed[i].departure.Before(timed[j].departure)
	})

	var clusters []domain.Cluster
	run := []timedLeg{timed[0]}

	for _, next := range timed[1:] {
		if gapHours(run[len(run)-1].arrival, next.departure) <= maxGapHours {
			run = append(run, next)
			continue
		}
		clusters = append(clusters, buildCluster(run))
		run = []timedLeg{next}
	}
	clusters = append(clusters, buildCluster(run))

	return clusters, legErrors
}

// gapHours returns the gap between an arrival and the next departure in
// hours. Overlapping legs produce a negative difference, which is clamped to
// zero so same-day connections always chain.
func gapHours(arrival, nextDeparture time.Time) float64 {
	gap := nextDeparture.Sub(arrival).Hours()
	if gap < 0 {
		return 0
	}
	return gap
}

// buildCluster assembles a Cluster from a non-empty run of timed legs.
func buildCluster(run []timedLeg) domain.Cluster {
	legs := make([]domain.FlightLeg, len(run))
	for i, tl := range run {
		legs[i] = tl.leg
	}
	first := run[0]
	last := run[len(run)-1]

	return domain.Cluster{
		Legs:          legs,
		StartLocation: first.leg.DepartureLocation(),
		EndLocation:   last.leg.ArrivalLocation(),
		StartTime:     first.departure,
		EndTime:       last.arrival,
	}
}
