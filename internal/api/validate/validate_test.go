package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/tools"
)

func validOffer() tools.OfferArgs {
	return tools.OfferArgs{
		OriginCity: "Hamburg", OriginCountry: "DE",
		DestinationCity: "Warsaw", DestinationCountry: "PL",
		DepartureDate: "2025-11-03", AvailableWeightKg: 8000,
		VehicleType: "truck", FuelType: "diesel",
	}
}

func validRequest() tools.RequestArgs {
	return tools.RequestArgs{
		OriginCity: "Berlin", OriginCountry: "DE",
		DestinationCity: "Paris", DestinationCountry: "FR",
		PickupDate: "2025-11-10", WeightKg: 500, CargoDescription: "Machine parts",
	}
}

func TestCreateOffer(t *testing.T) {
	require.NoError(t, CreateOffer(validOffer()))

	tests := []struct {
		name     string
		mutate   func(*tools.OfferArgs)
		errorMsg string
	}{
		{"missing origin city", func(a *tools.OfferArgs) { a.OriginCity = " " }, "origin_city is required"},
		{"long city", func(a *tools.OfferArgs) { a.DestinationCity = strings.Repeat("x", 101) }, "destination_city exceeds 100 characters"},
		{"lower-case country", func(a *tools.OfferArgs) { a.OriginCountry = "de" }, "origin_country must be a two-letter"},
		{"three-letter country", func(a *tools.OfferArgs) { a.DestinationCountry = "POL" }, "destination_country must be a two-letter"},
		{"bad date", func(a *tools.OfferArgs) { a.DepartureDate = "03/11/2025" }, "departure_date must be a date"},
		{"impossible date", func(a *tools.OfferArgs) { a.DepartureDate = "2025-13-40" }, "departure_date must be a date"},
		{"zero weight", func(a *tools.OfferArgs) { a.AvailableWeightKg = 0 }, "available_weight_kg must be greater than 0"},
		{"heavy", func(a *tools.OfferArgs) { a.AvailableWeightKg = 100001 }, "available_weight_kg exceeds 100000 kg"},
		{"negative volume", func(a *tools.OfferArgs) { a.AvailableVolumeM3 = -1 }, "available_volume_m3 must not be negative"},
		{"negative price", func(a *tools.OfferArgs) { a.PricePerKg = -0.1 }, "price_per_kg must not be negative"},
		{"missing vehicle", func(a *tools.OfferArgs) { a.VehicleType = "" }, "vehicle_type is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validOffer()
			tt.mutate(&a)
			err := CreateOffer(a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestCreateRequest(t *testing.T) {
	require.NoError(t, CreateRequest(validRequest()))

	a := validRequest()
	a.WeightKg = 100000
	assert.NoError(t, CreateRequest(a), "upper weight bound is inclusive")

	a = validRequest()
	a.CargoDescription = strings.Repeat("ä", 501)
	assert.EqualError(t, CreateRequest(a), "cargo_description exceeds 500 characters")

	a = validRequest()
	a.CargoDescription = strings.Repeat("ä", 500)
	assert.NoError(t, CreateRequest(a))

	a = validRequest()
	a.PickupDate = ""
	assert.EqualError(t, CreateRequest(a), "pickup_date is required")

	a = validRequest()
	a.InsuranceValue = -5
	assert.EqualError(t, CreateRequest(a), "insurance_value must not be negative")
}
