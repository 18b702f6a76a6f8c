package http

// PreviewResponseDTO is the data transfer object for preview responses.
// It matches the expected API output format with snake_case fields.
type PreviewResponseDTO struct {
	Clusters  []ClusterPreviewDTO `json:"clusters"`
	Summary   PreviewSummaryDTO   `json:"summary"`
	LegErrors []LegErrorDTO       `json:"leg_errors,omitempty"`
}

// ClusterPreviewDTO pairs a cluster with its match or suggestion.
type ClusterPreviewDTO struct {
	Cluster    ClusterDTO           `json:"cluster"`
	Match      *MatchResultDTO      `json:"match,omitempty"`
	Suggestion *SuggestedSegmentDTO `json:"suggestion,omitempty"`
}

// ClusterDTO represents one derived journey.
type ClusterDTO struct {
	StartLocation string          `json:"start_location"`
	EndLocation   string          `json:"end_location"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	RoundTrip     bool            `json:"round_trip"`
	Flights       []ClusterLegDTO `json:"flights"`
}

// ClusterLegDTO is the condensed leg view inside a cluster.
type ClusterLegDTO struct {
	Carrier          string `json:"carrier,omitempty"`
	FlightNumber     string `json:"flight_number"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
}

// MatchResultDTO represents the best matching segment with its score breakdown.
type MatchResultDTO struct {
	SegmentID   string            `json:"segment_id"`
	SegmentName string            `json:"segment_name"`
	Score       float64           `json:"score"`
	Breakdown   ScoreBreakdownDTO `json:"breakdown"`
}

// ScoreBreakdownDTO exposes the unweighted score terms (0-1).
type ScoreBreakdownDTO struct {
	Location float64 `json:"location"`
	Temporal float64 `json:"temporal"`
}

// SuggestedSegmentDTO represents a proposed new segment.
type SuggestedSegmentDTO struct {
	Name          string `json:"name"`
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// LegErrorDTO reports one malformed leg excluded from clustering.
type LegErrorDTO struct {
	FlightNumber string `json:"flight_number,omitempty"`
	Reason       string `json:"reason"`
}

// PreviewSummaryDTO aggregates a preview run.
type PreviewSummaryDTO struct {
	TotalFlights      int `json:"total_flights"`
	TotalClusters     int `json:"total_clusters"`
	MatchedClusters   int `json:"matched_clusters"`
	SuggestedClusters int `json:"suggested_clusters"`
}

// ApplyResponseDTO is the data transfer object for apply responses.
type ApplyResponseDTO struct {
	Outcomes  []ClusterOutcomeDTO `json:"outcomes"`
	Summary   ApplySummaryDTO     `json:"summary"`
	LegErrors []LegErrorDTO       `json:"leg_errors,omitempty"`
}

// ClusterOutcomeDTO is the per-cluster result of an apply run.
type ClusterOutcomeDTO struct {
	Cluster      ClusterDTO           `json:"cluster"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	SegmentID    string               `json:"segment_id,omitempty"`
	Match        *MatchResultDTO      `json:"match,omitempty"`
	Suggestion   *SuggestedSegmentDTO `json:"suggestion,omitempty"`
	Reservations []ReservationDTO     `json:"reservations,omitempty"`
	SkippedLegs  int                  `json:"skipped_legs,omitempty"`
}

// ReservationDTO represents a persisted reservation.
type ReservationDTO struct {
	ID                 string   `json:"id"`
	SegmentID          string   `json:"segment_id"`
	Name               string   `json:"name"`
	Carrier            string   `json:"carrier,omitempty"`
	FlightNumber       string   `json:"flight_number"`
	ConfirmationNumber string   `json:"confirmation_number,omitempty"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	DepartureLocation  string   `json:"departure_location,omitempty"`
	ArrivalLocation    string   `json:"arrival_location,omitempty"`
	Cost               *float64 `json:"cost,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// ApplySummaryDTO aggregates an apply run.
type ApplySummaryDTO struct {
	TotalFlights        int `json:"total_flights"`
	TotalClusters       int `json:"total_clusters"`
	Attached            int `json:"attached"`
	Created             int `json:"created"`
	Skipped             int `json:"skipped"`
	Failed              int `json:"failed"`
	ReservationsCreated int `json:"reservations_created"`
	ReservationsSkipped int `json:"reservations_skipped"`
}
