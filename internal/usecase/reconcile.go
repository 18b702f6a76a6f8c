package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/infrastructure/metrics"
	"github.com/tripdesk/flight-reconciliation-service/internal/infrastructure/timeutil"
)

// FlightReconcileUseCase defines the interface for reconciling extracted
// flight bookings against a trip's segment structure.
type FlightReconcileUseCase interface {
	// Preview derives clusters and their match-or-suggestion without writing
	// anything. The result is what a UI shows before commit.
	Preview(ctx context.Context, tripID string, booking domain.BookingExtraction, opts Options) (*domain.Preview, error)

	// Apply persists the booking: clusters are attached to matched segments
	// or to newly created ones, idempotently, with per-cluster failure
	// isolation. Re-running Apply with the same booking never creates
	// duplicate reservations.
	Apply(ctx context.Context, tripID string, booking domain.BookingExtraction, opts Options) (*domain.ApplyReport, error)
}

// reconcileUseCase implements FlightReconcileUseCase on top of a TripStore.
type reconcileUseCase struct {
	store   domain.TripStore
	log     zerolog.Logger
	metrics *metrics.Metrics
	clock   timeutil.Clock
}

// NewFlightReconcileUseCase creates the reconciliation use case. metrics may
// be nil when instrumentation is not wired (tests).
func NewFlightReconcileUseCase(store domain.TripStore, log zerolog.Logger, m *metrics.Metrics) FlightReconcileUseCase {
	return &reconcileUseCase{
		store:   store,
		log:     log,
		metrics: m,
		clock:   timeutil.NewRealClock(),
	}
}

// Preview implements FlightReconcileUseCase.Preview.
func (uc *reconcileUseCase) Preview(ctx context.Context, tripID string, booking domain.BookingExtraction, opts Options) (*domain.Preview, error) {
	legs := booking.Legs()
	if len(legs) == 0 {
		return nil, domain.ErrNoLegs
	}

	trip, err := uc.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}

	preview := BuildPreview(trip, legs, opts.MaxGapHours)
	uc.metrics.AddMalformedLegs(len(preview.LegErrors))

	uc.log.Debug().
		Str("trip_id", tripID).
		Int("clusters", preview.Summary.TotalClusters).
		Int("matched", preview.Summary.MatchedClusters).
		Int("suggested", preview.Summary.SuggestedClusters).
		Msg("Preview built")

	return preview, nil
}

// Apply implements FlightReconcileUseCase.Apply. The whole run is a single
// synchronous computation; store writes happen sequentially, cluster by
// cluster, and an in-flight batch is never aborted mid-way.
func (uc *reconcileUseCase) Apply(ctx context.Context, tripID string, booking domain.BookingExtraction, opts Options) (*domain.ApplyReport, error) {
	start := uc.clock.Now()
	defer func() {
		uc.metrics.ObserveApplyDuration(uc.clock.Now().Sub(start).Seconds())
	}()

	legs := booking.Legs()
	if len(legs) == 0 {
		return nil, domain.ErrNoLegs
	}

	trip, err := uc.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}

	if !opts.AutoCluster {
		return uc.applyManual(ctx, trip, legs, opts)
	}

	clusters, legErrors := ClusterLegs(legs, opts.MaxGapHours)
	uc.metrics.AddMalformedLegs(len(legErrors))

	report := &domain.ApplyReport{LegErrors: legErrors}
	report.Summary.TotalClusters = len(clusters)
	for _, c := range clusters {
		report.Summary.TotalFlights += len(c.Legs)
	}

	uc.log.Info().
		Str("trip_id", tripID).
		Int("legs", report.Summary.TotalFlights).
		Int("clusters", len(clusters)).
		Int("malformed_legs", len(legErrors)).
		Msg("Applying flight clusters")

	// pool holds the candidates still eligible for matching (no-fan-in:
	// a matched segment is claimed by the earliest cluster and removed).
	// known holds every segment glimpsed this run, including ones created
	// below, for name disambiguation and create-level idempotency.
	pool := make([]domain.Segment, len(trip.Segments))
	copy(pool, trip.Segments)
	known := make([]domain.Segment, len(trip.Segments))
	copy(known, trip.Segments)
	nextOrder := trip.MaxSegmentOrder() + 1

	for _, cluster := range clusters {
		outcome := uc.applyCluster(ctx, trip.ID, cluster, &pool, &known, &nextOrder, opts)
		report.Outcomes = append(report.Outcomes, outcome)
		uc.accumulate(&report.Summary, outcome)
	}

	uc.log.Info().
		Str("trip_id", tripID).
		Int("attached", report.Summary.Attached).
		Int("created", report.Summary.Created).
		Int("skipped", report.Summary.Skipped).
		Int("failed", report.Summary.Failed).
		Int("reservations", report.Summary.ReservationsCreated).
		Msg("Apply finished")

	return report, nil
}

// applyCluster drives one cluster through the per-cluster state machine:
// Pending -> Matching -> (Attaching | Suggesting -> Creating) -> terminal.
// Store failures are caught here; they fail this cluster only.
func (uc *reconcileUseCase) applyCluster(ctx context.Context, tripID string, cluster domain.Cluster, pool, known *[]domain.Segment, nextOrder *int, opts Options) domain.ClusterOutcome {
	outcome := domain.ClusterOutcome{Cluster: cluster}
	log := uc.log.With().Str("trip_id", tripID).Str("cluster", cluster.Summary()).Logger()

	// Matching against the current (mutating) candidate pool.
	if match := MatchCluster(cluster, *pool); match != nil {
		removeSegmentByID(pool, match.SegmentID)
		outcome.Match = match
		outcome.SegmentID = match.SegmentID

		log.Info().Str("segment", match.SegmentName).Float64("score", match.Score).Msg("Cluster matched")

		created, skipped, err := uc.attachLegs(ctx, match.SegmentID, cluster.Legs)
		outcome.Reservations = created
		outcome.SkippedLegs = skipped
		if err != nil {
			outcome.Status = domain.StatusFailed
			outcome.Reason = err.Error()
			log.Error().Err(err).Msg("Attach failed")
			return outcome
		}
		outcome.Status = domain.StatusAttached
		return outcome
	}

	// A segment created by a prior run for this exact journey counts as the
	// match even when scoring missed it; keys off the cluster tuple rather
	// than the generated name, so retries cannot create duplicate segments.
	if existing := findSegmentByWindow(*known, cluster); existing != nil {
		removeSegmentByID(pool, existing.ID)
		outcome.SegmentID = existing.ID
		outcome.Match = &domain.MatchResult{SegmentID: existing.ID, SegmentName: existing.Name, Score: 100, LocationScore: 1, TemporalScore: 1}

		created, skipped, err := uc.attachLegs(ctx, existing.ID, cluster.Legs)
		outcome.Reservations = created
		outcome.SkippedLegs = skipped
		if err != nil {
			outcome.Status = domain.StatusFailed
			outcome.Reason = err.Error()
			return outcome
		}
		outcome.Status = domain.StatusAttached
		return outcome
	}

	// Suggesting.
	suggestion := SuggestSegmentNamed(cluster, segmentNames(*known))
	outcome.Suggestion = &suggestion

	if !opts.CreateSuggestedSegments {
		outcome.Status = domain.StatusSkipped
		outcome.Reason = "no matching segment and creation disabled"
		log.Info().Str("suggestion", suggestion.Name).Msg("Cluster skipped, creation disabled")
		return outcome
	}

	// Creating.
	log.Info().Str("suggestion", suggestion.Name).Msg("No match, creating suggested segment")
	segment, err := uc.store.CreateSegment(ctx, tripID, suggestion, *nextOrder)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Reason = fmt.Sprintf("create segment: %v", err)
		log.Error().Err(err).Msg("Segment creation failed")
		return outcome
	}
	*nextOrder++
	*known = append(*known, *segment)
	outcome.SegmentID = segment.ID

	created, skipped, err := uc.attachLegs(ctx, segment.ID, cluster.Legs)
	outcome.Reservations = created
	outcome.SkippedLegs = skipped
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Reason = err.Error()
		log.Error().Err(err).Msg("Attach to created segment failed")
		return outcome
	}
	outcome.Status = domain.StatusCreated
	return outcome
}

// applyManual is the bypass path: every valid leg goes to the target
// segment, still idempotently. Used for hotel-style single-segment
// assignment when clustering is turned off.
func (uc *reconcileUseCase) applyManual(ctx context.Context, trip *domain.Trip, legs []domain.FlightLeg, opts Options) (*domain.ApplyReport, error) {
	if opts.TargetSegmentID == "" {
		return nil, fmt.Errorf("%w: targetSegmentId is required when autoCluster is disabled", domain.ErrInvalidRequest)
	}

	var target *domain.Segment
	for i := range trip.Segments {
		if trip.Segments[i].ID == opts.TargetSegmentID {
			target = &trip.Segments[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("segment %s: %w", opts.TargetSegmentID, domain.ErrSegmentNotFound)
	}

	// An unbounded gap collapses all valid legs into one ordered pseudo
	// cluster, reusing the clusterer's sorting and validation.
	clusters, legErrors := ClusterLegs(legs, math.Inf(1))
	uc.metrics.AddMalformedLegs(len(legErrors))

	report := &domain.ApplyReport{LegErrors: legErrors}
	if len(clusters) == 0 {
		// All legs were malformed; the report carries only the errors.
		return report, nil
	}
	cluster := clusters[0]

	report.Summary.TotalClusters = 1
	report.Summary.TotalFlights = len(cluster.Legs)

	outcome := domain.ClusterOutcome{
		Cluster:   cluster,
		SegmentID: target.ID,
		Match:     &domain.MatchResult{SegmentID: target.ID, SegmentName: target.Name, Score: 100, LocationScore: 1, TemporalScore: 1},
	}

	created, skipped, err := uc.attachLegs(ctx, target.ID, cluster.Legs)
	outcome.Reservations = created
	outcome.SkippedLegs = skipped
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Reason = err.Error()
	} else {
		outcome.Status = domain.StatusAttached
	}

	report.Outcomes = append(report.Outcomes, outcome)
	uc.accumulate(&report.Summary, outcome)
	return report, nil
}

// attachLegs writes the cluster's legs as reservations under segmentID,
// skipping any leg whose (carrier, flightNumber, confirmationNumber) key is
// already present. Returns the reservations actually created and the number
// of legs skipped.
func (uc *reconcileUseCase) attachLegs(ctx context.Context, segmentID string, legs []domain.FlightLeg) ([]domain.Reservation, int, error) {
	existing, err := uc.store.ListReservations(ctx, segmentID)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	seen := make(map[domain.ReservationKey]struct{}, len(existing))
	for i := range existing {
		seen[existing[i].Key()] = struct{}{}
	}

	var created []domain.Reservation
	skipped := 0

	for i := range legs {
		key := legs[i].Key()
		if _, dup := seen[key]; dup {
			skipped++
			continue
		}

		stored, err := uc.store.CreateReservation(ctx, reservationFromLeg(segmentID, &legs[i]))
		if err != nil {
			return created, skipped, fmt.Errorf("create reservation %s: %w", legs[i].FlightNumber, err)
		}
		created = append(created, *stored)
		seen[key] = struct{}{}
	}

	return created, skipped, nil
}

// accumulate folds one outcome into the run summary and metrics.
func (uc *reconcileUseCase) accumulate(summary *domain.ApplySummary, outcome domain.ClusterOutcome) {
	switch outcome.Status {
	case domain.StatusAttached:
		summary.Attached++
	case domain.StatusCreated:
		summary.Created++
	case domain.StatusSkipped:
		summary.Skipped++
	case domain.StatusFailed:
		summary.Failed++
	}
	summary.ReservationsCreated += len(outcome.Reservations)
	summary.ReservationsSkipped += outcome.SkippedLegs

	uc.metrics.ObserveOutcome(string(outcome.Status))
	uc.metrics.AddReservations(len(outcome.Reservations), outcome.SkippedLegs)
}

// reservationFromLeg maps a leg onto the reservation written to the store.
func reservationFromLeg(segmentID string, leg *domain.FlightLeg) domain.Reservation {
	// Instants parse by construction: legs reaching this point validated.
	start, _ := leg.DepartureInstant()
	end, _ := leg.ArrivalInstant()

	return domain.Reservation{
		SegmentID:          segmentID,
		Name:               leg.ReservationName(),
		Carrier:            leg.Carrier,
		FlightNumber:       leg.FlightNumber,
		ConfirmationNumber: leg.ConfirmationNumber,
		StartTime:          start,
		EndTime:            end,
		DepartureLocation:  formatLocation(leg.DepartureCity, leg.DepartureAirport),
		ArrivalLocation:    formatLocation(leg.ArrivalCity, leg.ArrivalAirport),
		Cost:               leg.Cost,
		Currency:           leg.Currency,
		Notes:              buildNotes(leg),
	}
}

// formatLocation renders "City (APT)" for display, degrading gracefully when
// either part is missing.
func formatLocation(city, airport string) string {
	switch {
	case city != "" && airport != "":
		return city + " (" + airport + ")"
	case city != "":
		return city
	default:
		return airport
	}
}

// buildNotes renders optional leg details one per line.
func buildNotes(leg *domain.FlightLeg) string {
	var notes []byte
	appendNote := func(label, value string) {
		if value == "" {
			return
		}
		if len(notes) > 0 {
			notes = append(notes, '\n')
		}
		notes = append(notes, label...)
		notes = append(notes, ": "...)
		notes = append(notes, value...)
	}

	appendNote("Cabin", leg.Cabin)
	appendNote("Seat", leg.SeatNumber)
	appendNote("Operated by", leg.OperatedBy)
	appendNote("E-ticket", leg.ETicketNumber)
	return string(notes)
}

// segmentNames extracts display names for collision checks.
func segmentNames(segments []domain.Segment) []string {
	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.Name
	}
	return names
}

// removeSegmentByID drops a segment from the slice in place. Claimed
// segments leave the candidate pool so later clusters cannot fan into them.
func removeSegmentByID(segments *[]domain.Segment, id string) {
	for i := range *segments {
		if (*segments)[i].ID == id {
			*segments = append((*segments)[:i], (*segments)[i+1:]...)
			return
		}
	}
}

// findSegmentByWindow looks for a segment whose tuple (startTitle, endTitle,
// startTime, endTime) equals the cluster's.
func findSegmentByWindow(segments []domain.Segment, cluster domain.Cluster) *domain.Segment {
	for i := range segments {
		if cluster.MatchesSegmentWindow(&segments[i]) {
			return &segments[i]
		}
	}
	return nil
}

// Ensure reconcileUseCase implements FlightReconcileUseCase at compile time.
var _ FlightReconcileUseCase = (*reconcileUseCase)(nil)
