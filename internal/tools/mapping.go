package tools

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/semi-dlc/flowt-bb/internal/model"
)

// OfferArgs are the flat fields of create_shipment_offer. The listing form
// posts the same shape plus CargoTypes.
type OfferArgs struct {
	OriginCity            string   `json:"origin_city"`
	OriginCountry         string   `json:"origin_country"`
	OriginPostal          string   `json:"origin_postal,omitempty"`
	DestinationCity       string   `json:"destination_city"`
	DestinationCountry    string   `json:"destination_country"`
	DestinationPostal     string   `json:"destination_postal,omitempty"`
	DepartureDate         string   `json:"departure_date"`
	AvailableWeightKg     float64  `json:"available_weight_kg"`
	AvailableVolumeM3     float64  `json:"available_volume_m3,omitempty"`
	PricePerKg            float64  `json:"price_per_kg,omitempty"`
	VehicleType           string   `json:"vehicle_type"`
	FuelType              string   `json:"fuel_type"`
	ADRCertified          bool     `json:"adr_certified"`
	TemperatureControlled bool     `json:"temperature_controlled"`
	CargoTypes            []string `json:"cargo_types,omitempty"`
}

// RequestArgs are the flat fields of create_shipment_request.
type RequestArgs struct {
	OriginCity            string  `json:"origin_city"`
	OriginCountry         string  `json:"origin_country"`
	OriginPostal          string  `json:"origin_postal,omitempty"`
	DestinationCity       string  `json:"destination_city"`
	DestinationCountry    string  `json:"destination_country"`
	DestinationPostal     string  `json:"destination_postal,omitempty"`
	PickupDate            string  `json:"pickup_date"`
	WeightKg              float64 `json:"weight_kg"`
	VolumeM3              float64 `json:"volume_m3,omitempty"`
	CargoDescription      string  `json:"cargo_description"`
	IsDangerous           bool    `json:"is_dangerous"`
	RequiresCustoms       bool    `json:"requires_customs"`
	TemperatureControlled bool    `json:"temperature_controlled"`
	InsuranceValue        float64 `json:"insurance_value,omitempty"`
}

// ParseOfferArgs decodes the JSON argument string of a tool call.
func ParseOfferArgs(raw string) (OfferArgs, error) {
	var a OfferArgs
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return a, fmt.Errorf("%s arguments: %w", CreateOfferName, err)
	}
	return a, nil
}

// ParseRequestArgs decodes the JSON argument string of a tool call.
func ParseRequestArgs(raw string) (RequestArgs, error) {
	var a RequestArgs
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return a, fmt.Errorf("%s arguments: %w", CreateRequestName, err)
	}
	return a, nil
}

// countryRx matches an ISO 3166-1 alpha-2 code in upper case.
var countryRx = regexp.MustCompile(`^[A-Z]{2}$`)

// ValidCountry reports whether code is a two-letter upper-case country code.
func ValidCountry(code string) bool { return countryRx.MatchString(code) }

// CheckRoute rejects a route whose country codes are not ISO alpha-2.
// The error wraps model.ErrValidation.
func CheckRoute(originCountry, destinationCountry string) error {
	for _, c := range []struct{ field, code string }{
		{"origin_country", originCountry},
		{"destination_country", destinationCountry},
	} {
		if !ValidCountry(c.code) {
			return fmt.Errorf("%s %q is not a two-letter country code: %w", c.field, c.code, model.ErrValidation)
		}
	}
	return nil
}

// CrossBorder reports whether a route leaves its origin country.
func CrossBorder(originCountry, destinationCountry string) bool {
	return originCountry != destinationCountry
}

func location(city, country, postal string) model.Location {
	return model.Location{City: city, CountryCode: country, PostalCode: postal}
}

// ToOffer maps a into a new active offer owned by userID.
func (a OfferArgs) ToOffer(userID string) *model.Offer {
	return &model.Offer{
		UserID: userID,
		Route: model.OfferRoute{
			Origin:          location(a.OriginCity, a.OriginCountry, a.OriginPostal),
			Destination:     location(a.DestinationCity, a.DestinationCountry, a.DestinationPostal),
			PickupDateRange: model.DateRange{Earliest: a.DepartureDate, Latest: a.DepartureDate},
			CrossBorder:     CrossBorder(a.OriginCountry, a.DestinationCountry),
		},
		Capacity: model.Capacity{
			AvailableWeightKg: a.AvailableWeightKg,
			AvailableVolumeM3: a.AvailableVolumeM3,
		},
		Vehicle: model.Vehicle{
			Type:                  a.VehicleType,
			FuelType:              a.FuelType,
			Equipment:             []string{},
			ADRCertified:          a.ADRCertified,
			TemperatureControlled: a.TemperatureControlled,
		},
		Pricing: model.Pricing{
			PricePerKg:   a.PricePerKg,
			Currency:     model.DefaultCurrency,
			PricingModel: model.PricingPerKg,
		},
		AcceptedCargoTypes: model.AcceptedCargoTypes{
			Types:                  a.CargoTypes,
			DangerousGoodsAccepted: a.ADRCertified,
		},
		Carrier:             map[string]interface{}{},
		CustomsCapabilities: model.CustomsCapabilities{CustomsClearanceService: false},
		Status:              model.StatusActive,
	}
}

// ToRequest maps a into a new active request owned by userID.
func (a RequestArgs) ToRequest(userID string) *model.Request {
	return &model.Request{
		UserID: userID,
		Route: model.RequestRoute{
			Origin:             location(a.OriginCity, a.OriginCountry, a.OriginPostal),
			Destination:        location(a.DestinationCity, a.DestinationCountry, a.DestinationPostal),
			PickupDateRequired: model.DateRange{Earliest: a.PickupDate, Latest: a.PickupDate},
			TimeCritical:       false,
			CrossBorder:        CrossBorder(a.OriginCountry, a.DestinationCountry),
		},
		Cargo: model.Cargo{
			Description:        a.CargoDescription,
			WeightKg:           a.WeightKg,
			VolumeM3:           a.VolumeM3,
			PackagingType:      model.DefaultPackaging,
			TotalDeclaredValue: a.InsuranceValue,
			Currency:           model.DefaultCurrency,
		},
		DangerousGoods: model.DangerousGoods{IsDangerous: a.IsDangerous},
		CustomsTrade:   model.CustomsTrade{RequiresCustomsClearance: a.RequiresCustoms},
		SpecialRequirements: model.SpecialRequirements{
			TemperatureControlled: a.TemperatureControlled,
			InsuranceRequired:     a.InsuranceValue > 0,
			InsuranceValue:        a.InsuranceValue,
		},
		Shipper: map[string]interface{}{},
		Status:  model.StatusActive,
	}
}
