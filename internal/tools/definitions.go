package tools

import (
	"encoding/json"

	"github.com/semi-dlc/flowt-bb/internal/completion"
)

// Function names the model may call.
const (
	CreateOfferName   = "create_shipment_offer"
	CreateRequestName = "create_shipment_request"
)

const offerParameters = `{
  "type": "object",
  "properties": {
    "origin_city": {"type": "string", "description": "Origin city name"},
    "origin_country": {"type": "string", "description": "2-letter ISO country code (e.g., DE, FR)"},
    "origin_postal": {"type": "string", "description": "Postal code (optional)"},
    "destination_city": {"type": "string", "description": "Destination city name"},
    "destination_country": {"type": "string", "description": "2-letter ISO country code"},
    "destination_postal": {"type": "string", "description": "Postal code (optional)"},
    "departure_date": {"type": "string", "description": "Departure date in YYYY-MM-DD format"},
    "available_weight_kg": {"type": "number", "description": "Available weight capacity in kilograms"},
    "available_volume_m3": {"type": "number", "description": "Available volume in cubic meters (optional)"},
    "price_per_kg": {"type": "number", "description": "Price per kilogram in EUR (optional, can be 0 for negotiable)"},
    "vehicle_type": {"type": "string", "description": "Vehicle type: truck, van, or semi"},
    "fuel_type": {"type": "string", "description": "Fuel type: diesel, electric, or hydrogen"},
    "adr_certified": {"type": "boolean", "description": "Whether vehicle is ADR certified for dangerous goods"},
    "temperature_controlled": {"type": "boolean", "description": "Whether vehicle has temperature control"}
  },
  "required": ["origin_city", "origin_country", "destination_city", "destination_country", "departure_date",
    "available_weight_kg", "vehicle_type", "fuel_type", "adr_certified", "temperature_controlled"]
}`

const requestParameters = `{
  "type": "object",
  "properties": {
    "origin_city": {"type": "string", "description": "Origin city name"},
    "origin_country": {"type": "string", "description": "2-letter ISO country code (e.g., DE, FR)"},
    "origin_postal": {"type": "string", "description": "Postal code (optional)"},
    "destination_city": {"type": "string", "description": "Destination city name"},
    "destination_country": {"type": "string", "description": "2-letter ISO country code"},
    "destination_postal": {"type": "string", "description": "Postal code (optional)"},
    "pickup_date": {"type": "string", "description": "Pickup date in YYYY-MM-DD format"},
    "weight_kg": {"type": "number", "description": "Cargo weight in kilograms"},
    "volume_m3": {"type": "number", "description": "Cargo volume in cubic meters (optional)"},
    "cargo_description": {"type": "string", "description": "Description of cargo being shipped"},
    "is_dangerous": {"type": "boolean", "description": "Whether cargo is classified as dangerous goods"},
    "requires_customs": {"type": "boolean", "description": "Whether shipment requires customs clearance"},
    "temperature_controlled": {"type": "boolean", "description": "Whether cargo needs temperature control"},
    "insurance_value": {"type": "number", "description": "Insurance value in EUR (optional)"}
  },
  "required": ["origin_city", "origin_country", "destination_city", "destination_country", "pickup_date",
    "weight_kg", "cargo_description", "is_dangerous", "requires_customs", "temperature_controlled"]
}`

// Definitions returns the two listing-creation tools in the order they are offered to the model.
func Definitions() []completion.Tool {
	return []completion.Tool{
		{
			Type: "function",
			Function: completion.FunctionDef{
				Name:        CreateOfferName,
				Description: "Create a new transport capacity offer in the database after collecting all required information from the user. Call this when the user confirms they want to create the offer.",
				Parameters:  json.RawMessage(offerParameters),
			},
		},
		{
			Type: "function",
			Function: completion.FunctionDef{
				Name:        CreateRequestName,
				Description: "Create a new shipping request in the database after collecting all required information from the user. Call this when the user confirms they want to create the request.",
				Parameters:  json.RawMessage(requestParameters),
			},
		},
	}
}
