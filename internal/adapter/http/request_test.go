package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/flight-reconciliation-service/internal/usecase"
)

func validRequest() AddFlightsRequest {
	return AddFlightsRequest{
		ConfirmationNumber: "ABC123",
		TotalCost:          1500,
		Currency:           "USD",
		Flights: []FlightLegDTO{
			{
				Carrier:          "United Airlines",
				FlightNumber:     "UA875",
				DepartureAirport: "SFO",
				DepartureDate:    "2025-07-15",
				DepartureTime:    "10:00",
				ArrivalAirport:   "NRT",
				ArrivalDate:      "2025-07-16",
				ArrivalTime:      "14:00",
			},
		},
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	req := validRequest()
	assert.NoError(t, req.Validate())
}

func TestValidate_MissingFlights(t *testing.T) {
	req := validRequest()
	req.Flights = nil

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "flights")
}

func TestValidate_TooManyFlights(t *testing.T) {
	req := validRequest()
	leg := req.Flights[0]
	for i := 0; i <= maxFlightsPerRequest; i++ {
		req.Flights = append(req.Flights, leg)
	}

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "flights")
}

func TestValidate_MissingFlightNumber(t *testing.T) {
	req := validRequest()
	req.Flights[0].FlightNumber = ""

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "flights[0].flightNumber")
}

func TestValidate_MalformedLegDatesAccepted(t *testing.T) {
	// Unparsable dates are not a request-level error; the engine reports
	// them per leg while valid legs proceed.
	req := validRequest()
	req.Flights[0].DepartureDate = "not-a-date"

	assert.NoError(t, req.Validate())
}

func TestValidate_BadPurchaseDate(t *testing.T) {
	req := validRequest()
	req.PurchaseDate = "15/07/2025"

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "purchaseDate")
}

func TestValidate_NegativeTotalCost(t *testing.T) {
	req := validRequest()
	req.TotalCost = -10

	err := req.Validate()
	require.Error(t, err)
}

func TestValidate_CurrencyNormalized(t *testing.T) {
	req := validRequest()
	req.Currency = "usd"

	require.NoError(t, req.Validate())
	assert.Equal(t, "USD", req.Currency)
}

func TestValidate_BadCurrency(t *testing.T) {
	req := validRequest()
	req.Currency = "dollars"

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "currency")
}

func TestValidate_NegativeMaxGapHours(t *testing.T) {
	req := validRequest()
	gap := -1.0
	req.Options = &OptionsDTO{MaxGapHours: &gap}

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "options.maxGapHours")
}

func TestValidate_ManualModeRequiresTarget(t *testing.T) {
	req := validRequest()
	autoCluster := false
	req.Options = &OptionsDTO{AutoCluster: &autoCluster}

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "options.targetSegmentId")
}

func TestValidate_ManualModeWithTarget(t *testing.T) {
	req := validRequest()
	autoCluster := false
	req.Options = &OptionsDTO{AutoCluster: &autoCluster, TargetSegmentID: "seg-1"}

	assert.NoError(t, req.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	req := AddFlightsRequest{
		TotalCost: -5,
		Currency:  "x",
	}

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.GreaterOrEqual(t, len(verrs.Errors), 3)
	assert.NotEmpty(t, verrs.Error())
}

func TestToBooking(t *testing.T) {
	req := validRequest()
	req.PassengerName = "DOE/JOHN"
	req.ETicketNumber = "0167890123456"

	booking := req.ToBooking()

	assert.Equal(t, "ABC123", booking.ConfirmationNumber)
	assert.Equal(t, "DOE/JOHN", booking.PassengerName)
	assert.Equal(t, float64(1500), booking.TotalCost)
	require.Len(t, booking.Flights, 1)
	assert.Equal(t, "UA875", booking.Flights[0].FlightNumber)
	assert.Equal(t, "SFO", booking.Flights[0].DepartureAirport)
}

func TestToOptions_Defaults(t *testing.T) {
	req := validRequest()

	opts := req.ToOptions(usecase.DefaultOptions())

	assert.True(t, opts.AutoCluster)
	assert.Equal(t, usecase.DefaultMaxGapHours, opts.MaxGapHours)
	assert.True(t, opts.CreateSuggestedSegments)
	assert.Empty(t, opts.TargetSegmentID)
}

func TestToOptions_Overrides(t *testing.T) {
	req := validRequest()
	gap := 24.0
	create := false
	req.Options = &OptionsDTO{
		MaxGapHours:             &gap,
		CreateSuggestedSegments: &create,
	}

	opts := req.ToOptions(usecase.DefaultOptions())

	assert.True(t, opts.AutoCluster)
	assert.Equal(t, 24.0, opts.MaxGapHours)
	assert.False(t, opts.CreateSuggestedSegments)
}

func TestToOptions_ZeroGapKeepsDefault(t *testing.T) {
	req := validRequest()
	gap := 0.0
	req.Options = &OptionsDTO{MaxGapHours: &gap}

	opts := req.ToOptions(usecase.DefaultOptions())

	assert.Equal(t, usecase.DefaultMaxGapHours, opts.MaxGapHours)
}
