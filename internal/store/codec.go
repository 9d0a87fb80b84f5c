package store

import (
	"encoding/json"
	"fmt"

	"github.com/semi-dlc/flowt-bb/internal/model"
)

// OfferDocs holds the JSON documents of a shipment_offers row.
type OfferDocs struct {
	Route               []byte
	Capacity            []byte
	Vehicle             []byte
	Pricing             []byte
	AcceptedCargoTypes  []byte
	Carrier             []byte
	CustomsCapabilities []byte
}

// EncodeOffer marshals the document columns of o.
func EncodeOffer(o *model.Offer) (OfferDocs, error) {
	var d OfferDocs
	carrier := o.Carrier
	if carrier == nil {
		carrier = map[string]interface{}{}
	}
	vehicle := o.Vehicle
	if vehicle.Equipment == nil {
		vehicle.Equipment = []string{}
	}
	err := marshalAll(
		field{"route", o.Route, &d.Route},
		field{"capacity", o.Capacity, &d.Capacity},
		field{"vehicle", vehicle, &d.Vehicle},
		field{"pricing", o.Pricing, &d.Pricing},
		field{"accepted_cargo_types", o.AcceptedCargoTypes, &d.AcceptedCargoTypes},
		field{"carrier", carrier, &d.Carrier},
		field{"customs_capabilities", o.CustomsCapabilities, &d.CustomsCapabilities},
	)
	return d, err
}

// Decode fills the document fields of o.
func (d OfferDocs) Decode(o *model.Offer) error {
	return unmarshalAll(
		field{"route", &o.Route, &d.Route},
		field{"capacity", &o.Capacity, &d.Capacity},
		field{"vehicle", &o.Vehicle, &d.Vehicle},
		field{"pricing", &o.Pricing, &d.Pricing},
		field{"accepted_cargo_types", &o.AcceptedCargoTypes, &d.AcceptedCargoTypes},
		field{"carrier", &o.Carrier, &d.Carrier},
		field{"customs_capabilities", &o.CustomsCapabilities, &d.CustomsCapabilities},
	)
}

// RequestDocs holds the JSON documents of a shipment_requests row.
type RequestDocs struct {
	Route               []byte
	Cargo               []byte
	DangerousGoods      []byte
	CustomsTrade        []byte
	SpecialRequirements []byte
	Shipper             []byte
}

// EncodeRequest marshals the document columns of r.
func EncodeRequest(r *model.Request) (RequestDocs, error) {
	var d RequestDocs
	shipper := r.Shipper
	if shipper == nil {
		shipper = map[string]interface{}{}
	}
	err := marshalAll(
		field{"route", r.Route, &d.Route},
		field{"cargo", r.Cargo, &d.Cargo},
		field{"dangerous_goods", r.DangerousGoods, &d.DangerousGoods},
		field{"customs_trade", r.CustomsTrade, &d.CustomsTrade},
		field{"special_requirements", r.SpecialRequirements, &d.SpecialRequirements},
		field{"shipper", shipper, &d.Shipper},
	)
	return d, err
}

// Decode fills the document fields of r.
func (d RequestDocs) Decode(r *model.Request) error {
	return unmarshalAll(
		field{"route", &r.Route, &d.Route},
		field{"cargo", &r.Cargo, &d.Cargo},
		field{"dangerous_goods", &r.DangerousGoods, &d.DangerousGoods},
		field{"customs_trade", &r.CustomsTrade, &d.CustomsTrade},
		field{"special_requirements", &r.SpecialRequirements, &d.SpecialRequirements},
		field{"shipper", &r.Shipper, &d.Shipper},
	)
}

type field struct {
	column string
	value  interface{}
	raw    *[]byte
}

func marshalAll(fields ...field) error {
	for _, f := range fields {
		b, err := json.Marshal(f.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.column, err)
		}
		*f.raw = b
	}
	return nil
}

func unmarshalAll(fields ...field) error {
	for _, f := range fields {
		if len(*f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(*f.raw, f.value); err != nil {
			return fmt.Errorf("decode %s: %w", f.column, err)
		}
	}
	return nil
}
