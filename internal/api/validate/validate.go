package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	"github.com/semi-dlc/flowt-bb/internal/tools"
)

const (
	maxCityLen        = 100
	maxDescriptionLen = 500
	maxWeightKg       = 100000
)

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// City requires 1-100 characters.
func City(field, v string) error {
	if err := NonEmpty(field, v); err != nil {
		return err
	}
	if utf8.RuneCountInString(v) > maxCityLen {
		return fmt.Errorf("%s exceeds %d characters", field, maxCityLen)
	}
	return nil
}

func Country(field, v string) error {
	if !tools.ValidCountry(v) {
		return fmt.Errorf("%s must be a two-letter upper-case country code", field)
	}
	return nil
}

// Date requires a calendar date in YYYY-MM-DD form.
func Date(field, v string) error {
	if err := NonEmpty(field, v); err != nil {
		return err
	}
	if !strfmt.IsDate(v) {
		return fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return nil
}

func Weight(field string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be greater than 0", field)
	}
	if v > maxWeightKg {
		return fmt.Errorf("%s exceeds %d kg", field, maxWeightKg)
	}
	return nil
}

func NonNegative(field string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateOffer validates a transport offer posted from the listing form.
func CreateOffer(a tools.OfferArgs) error {
	return firstError(
		City("origin_city", a.OriginCity),
		Country("origin_country", a.OriginCountry),
		City("destination_city", a.DestinationCity),
		Country("destination_country", a.DestinationCountry),
		Date("departure_date", a.DepartureDate),
		Weight("available_weight_kg", a.AvailableWeightKg),
		NonNegative("available_volume_m3", a.AvailableVolumeM3),
		NonNegative("price_per_kg", a.PricePerKg),
		NonEmpty("vehicle_type", a.VehicleType),
		NonEmpty("fuel_type", a.FuelType),
	)
}

// CreateRequest validates a shipping request posted from the listing form.
func CreateRequest(a tools.RequestArgs) error {
	return firstError(
		City("origin_city", a.OriginCity),
		Country("origin_country", a.OriginCountry),
		City("destination_city", a.DestinationCity),
		Country("destination_country", a.DestinationCountry),
		Date("pickup_date", a.PickupDate),
		Weight("weight_kg", a.WeightKg),
		NonNegative("volume_m3", a.VolumeM3),
		NonEmpty("cargo_description", a.CargoDescription),
		MaxLen("cargo_description", a.CargoDescription, maxDescriptionLen),
		NonNegative("insurance_value", a.InsuranceValue),
	)
}
