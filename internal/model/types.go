package model

import "time"

// ListingStatus is the lifecycle state of an offer, request or booking.
type ListingStatus string

const (
	StatusActive    ListingStatus = "active"
	StatusMatched   ListingStatus = "matched"
	StatusInTransit ListingStatus = "in_transit"
	StatusCompleted ListingStatus = "completed"
	StatusCancelled ListingStatus = "cancelled"
)

const (
	DefaultCurrency  = "EUR"
	DefaultPackaging = "Standard"
	PricingPerKg     = "per_kg"
)

// Coordinates is a WGS84 point. Listings created from chat carry 0,0.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is one end of a route.
type Location struct {
	City        string      `json:"city"`
	CountryCode string      `json:"country_code"`
	PostalCode  string      `json:"postal_code"`
	Coordinates Coordinates `json:"coordinates"`
}

// DateRange holds two YYYY-MM-DD dates.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type OfferRoute struct {
	Origin          Location  `json:"origin"`
	Destination     Location  `json:"destination"`
	PickupDateRange DateRange `json:"pickup_date_range"`
	CrossBorder     bool      `json:"cross_border"`
}

type RequestRoute struct {
	Origin             Location  `json:"origin"`
	Destination        Location  `json:"destination"`
	PickupDateRequired DateRange `json:"pickup_date_required"`
	TimeCritical       bool      `json:"time_critical"`
	CrossBorder        bool      `json:"cross_border"`
}

type Dimensions struct {
	LengthCM float64 `json:"length_cm"`
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

type Capacity struct {
	AvailableWeightKg float64    `json:"available_weight_kg"`
	AvailableVolumeM3 float64    `json:"available_volume_m3"`
	MaxDimensions     Dimensions `json:"max_dimensions"`
}

type Vehicle struct {
	Type                  string   `json:"type"`
	FuelType              string   `json:"fuel_type"`
	Equipment             []string `json:"equipment"`
	ADRCertified          bool     `json:"adr_certified"`
	TemperatureControlled bool     `json:"temperature_controlled"`
}

type Pricing struct {
	PricePerKg   float64 `json:"price_per_kg"`
	Currency     string  `json:"currency"`
	PricingModel string  `json:"pricing_model"`
}

type AcceptedCargoTypes struct {
	Types                  []string `json:"types,omitempty"`
	DangerousGoodsAccepted bool     `json:"dangerous_goods_accepted"`
}

type CustomsCapabilities struct {
	CustomsClearanceService bool `json:"customs_clearance_service"`
}

// Offer is carrier capacity on a route.
type Offer struct {
	ID                  string                 `json:"id"`
	UserID              string                 `json:"user_id"`
	Route               OfferRoute             `json:"route"`
	Capacity            Capacity               `json:"capacity"`
	Vehicle             Vehicle                `json:"vehicle"`
	Pricing             Pricing                `json:"pricing"`
	AcceptedCargoTypes  AcceptedCargoTypes     `json:"accepted_cargo_types"`
	Carrier             map[string]interface{} `json:"carrier"`
	CustomsCapabilities CustomsCapabilities    `json:"customs_capabilities"`
	Status              ListingStatus          `json:"status"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

type Cargo struct {
	Description        string  `json:"description"`
	WeightKg           float64 `json:"weight_kg"`
	VolumeM3           float64 `json:"volume_m3"`
	PackagingType      string  `json:"packaging_type"`
	TotalDeclaredValue float64 `json:"total_declared_value"`
	Currency           string  `json:"currency"`
}

type DangerousGoods struct {
	IsDangerous bool `json:"is_dangerous"`
}

type CustomsTrade struct {
	RequiresCustomsClearance bool `json:"requires_customs_clearance"`
}

type SpecialRequirements struct {
	TemperatureControlled bool    `json:"temperature_controlled"`
	InsuranceRequired     bool    `json:"insurance_required"`
	InsuranceValue        float64 `json:"insurance_value"`
}

// Request is a shipper's need for transport.
type Request struct {
	ID                  string                 `json:"id"`
	UserID              string                 `json:"user_id"`
	Route               RequestRoute           `json:"route"`
	Cargo               Cargo                  `json:"cargo"`
	DangerousGoods      DangerousGoods         `json:"dangerous_goods"`
	CustomsTrade        CustomsTrade           `json:"customs_trade"`
	SpecialRequirements SpecialRequirements    `json:"special_requirements"`
	Shipper             map[string]interface{} `json:"shipper"`
	Status              ListingStatus          `json:"status"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Company is the PII-free projection of a profile.
type Company struct {
	Name string `json:"company_name"`
	Type string `json:"company_type"`
}

// UnknownCompany is shown when a listing's owner has no public profile.
const UnknownCompany = "Unknown Company"

// OfferListing is an offer joined with its owner's public profile.
type OfferListing struct {
	Offer
	Company
}

// RequestListing is a request joined with its owner's public profile.
type RequestListing struct {
	Request
	Company
}

// Booking records a matched offer and request. Read-only in this service.
type Booking struct {
	ID          string        `json:"id"`
	OfferID     string        `json:"offer_id"`
	RequestID   string        `json:"request_id"`
	CarrierID   string        `json:"carrier_id"`
	ShipperID   string        `json:"shipper_id"`
	AgreedPrice float64       `json:"agreed_price"`
	WeightKg    float64       `json:"weight_kg"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Profile is a company account. Contact fields never leave the store layer
// through the feeds; use Company for anything rendered to other users.
type Profile struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	CompanyType   string    `json:"company_type"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Role values stored in user_roles.
const (
	RoleDeveloper = "developer"
	RoleUser      = "user"
)

// Turn is a single message of conversation history supplied by the client.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ListOptions bounds feed queries.
type ListOptions struct {
	Limit int
}
