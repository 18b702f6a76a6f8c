package http

import (
	"time"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
)

const timeFormat = time.RFC3339

// ToPreviewResponseDTO converts a domain Preview to its response DTO.
func ToPreviewResponseDTO(preview *domain.Preview) *PreviewResponseDTO {
	if preview == nil {
		return nil
	}

	dto := &PreviewResponseDTO{
		Clusters: make([]ClusterPreviewDTO, len(preview.Clusters)),
		Summary: PreviewSummaryDTO{
			TotalFlights:      preview.Summary.TotalFlights,
			TotalClusters:     preview.Summary.TotalClusters,
			MatchedClusters:   preview.Summary.MatchedClusters,
			SuggestedClusters: preview.Summary.SuggestedClusters,
		},
		LegErrors: toLegErrorDTOs(preview.LegErrors),
	}

	for i, cp := range preview.Clusters {
		dto.Clusters[i] = ClusterPreviewDTO{
			Cluster:    toClusterDTO(&cp.Cluster),
			Match:      toMatchResultDTO(cp.Match),
			Suggestion: toSuggestedSegmentDTO(cp.Suggestion),
		}
	}

	return dto
}

// ToApplyResponseDTO converts a domain ApplyReport to its response DTO.
func ToApplyResponseDTO(report *domain.ApplyReport) *ApplyResponseDTO {
	if report == nil {
		return nil
	}

	dto := &ApplyResponseDTO{
		Outcomes: make([]ClusterOutcomeDTO, len(report.Outcomes)),
		Summary: ApplySummaryDTO{
			TotalFlights:        report.Summary.TotalFlights,
			TotalClusters:       report.Summary.TotalClusters,
			Attached:            report.Summary.Attached,
			Created:             report.Summary.Created,
			Skipped:             report.Summary.Skipped,
			Failed:              report.Summary.Failed,
			ReservationsCreated: report.Summary.ReservationsCreated,
			ReservationsSkipped: report.Summary.ReservationsSkipped,
		},
		LegErrors: toLegErrorDTOs(report.LegErrors),
	}

	for i, outcome := range report.Outcomes {
		dto.Outcomes[i] = ClusterOutcomeDTO{
			Cluster:      toClusterDTO(&outcome.Cluster),
			Status:       string(outcome.Status),
			Reason:       outcome.Reason,
			SegmentID:    outcome.SegmentID,
			Match:        toMatchResultDTO(outcome.Match),
			Suggestion:   toSuggestedSegmentDTO(outcome.Suggestion),
			Reservations: toReservationDTOs(outcome.Reservations),
			SkippedLegs:  outcome.SkippedLegs,
		}
	}

	return dto
}

func toClusterDTO(cluster *domain.Cluster) ClusterDTO {
	dto := ClusterDTO{
		StartLocation: cluster.StartLocation,
		EndLocation:   cluster.EndLocation,
		StartTime:     cluster.StartTime.Format(timeFormat),
		EndTime:       cluster.EndTime.Format(timeFormat),
		RoundTrip:     cluster.IsRoundTrip(),
		Flights:       make([]ClusterLegDTO, len(cluster.Legs)),
	}

	for i, leg := range cluster.Legs {
		dto.Flights[i] = ClusterLegDTO{
			Carrier:          leg.Carrier,
			FlightNumber:     leg.FlightNumber,
			DepartureAirport: leg.DepartureAirport,
			ArrivalAirport:   leg.ArrivalAirport,
			DepartureTime:    leg.DepartureDate + " " + leg.DepartureTime,
			ArrivalTime:      leg.ArrivalDate + " " + leg.ArrivalTime,
		}
	}

	return dto
}

func toMatchResultDTO(match *domain.MatchResult) *MatchResultDTO {
	if match == nil {
		return nil
	}
	return &MatchResultDTO{
		SegmentID:   match.SegmentID,
		SegmentName: match.SegmentName,
		Score:       match.Score,
		Breakdown: ScoreBreakdownDTO{
			Location: match.LocationScore,
			Temporal: match.TemporalScore,
		},
	}
}

func toSuggestedSegmentDTO(suggestion *domain.SuggestedSegment) *SuggestedSegmentDTO {
	if suggestion == nil {
		return nil
	}
	return &SuggestedSegmentDTO{
		Name:          suggestion.Name,
		StartLocation: suggestion.StartLocation,
		EndLocation:   suggestion.EndLocation,
		StartTime:     suggestion.StartTime.Format(timeFormat),
		EndTime:       suggestion.EndTime.Format(timeFormat),
	}
}

func toLegErrorDTOs(errs []domain.LegError) []LegErrorDTO {
	if len(errs) == 0 {
		return nil
	}
	out := make([]LegErrorDTO, len(errs))
	for i, e := range errs {
		out[i] = LegErrorDTO{
			FlightNumber: e.Leg.FlightNumber,
			Reason:       e.Reason,
		}
	}
	return out
}

func toReservationDTOs(reservations []domain.Reservation) []ReservationDTO {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]ReservationDTO, len(reservations))
	for i, r := range reservations {
		out[i] = ReservationDTO{
			ID:                 r.ID,
			SegmentID:          r.SegmentID,
			Name:               r.Name,
			Carrier:            r.Carrier,
			FlightNumber:       r.FlightNumber,
			ConfirmationNumber: r.ConfirmationNumber,
			StartTime:          r.StartTime.Format(timeFormat),
			EndTime:            r.EndTime.Format(timeFormat),
			DepartureLocation:  r.DepartureLocation,
			ArrivalLocation:    r.ArrivalLocation,
			Cost:               r.Cost,
			Currency:           r.Currency,
			Notes:              r.Notes,
		}
	}
	return out
}
