package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/semi-dlc/flowt-bb/internal/store"
)

// schemaStatements mirrors the marketplace tables. JSON documents live in JSONB columns.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
        id UUID PRIMARY KEY,
        company_name TEXT NOT NULL DEFAULT '',
        company_type TEXT NOT NULL DEFAULT '',
        contact_person TEXT NOT NULL DEFAULT '',
        email TEXT NOT NULL DEFAULT '',
        phone TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE OR REPLACE VIEW profiles_public AS
        SELECT id, company_name, company_type, created_at FROM profiles`,
	`CREATE TABLE IF NOT EXISTS user_roles (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('developer','user')),
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE (user_id, role)
    )`,
	`CREATE TABLE IF NOT EXISTS shipment_offers (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL,
        route JSONB NOT NULL,
        capacity JSONB NOT NULL,
        vehicle JSONB NOT NULL,
        pricing JSONB,
        accepted_cargo_types JSONB,
        carrier JSONB,
        customs_capabilities JSONB,
        status TEXT NOT NULL DEFAULT 'active'
            CHECK (status IN ('active','matched','in_transit','completed','cancelled')),
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS shipment_offers_status_created_idx ON shipment_offers (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS shipment_requests (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL,
        route JSONB NOT NULL,
        cargo JSONB NOT NULL,
        dangerous_goods JSONB,
        customs_trade JSONB,
        special_requirements JSONB,
        shipper JSONB,
        status TEXT NOT NULL DEFAULT 'active'
            CHECK (status IN ('active','matched','in_transit','completed','cancelled')),
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS shipment_requests_status_created_idx ON shipment_requests (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS bookings (
        id UUID PRIMARY KEY,
        offer_id UUID NOT NULL,
        request_id UUID NOT NULL,
        carrier_id UUID NOT NULL,
        shipper_id UUID NOT NULL,
        agreed_price NUMERIC NOT NULL DEFAULT 0,
        weight_kg NUMERIC NOT NULL DEFAULT 0,
        status TEXT NOT NULL DEFAULT 'active',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS bookings_created_idx ON bookings (created_at DESC)`,
}

// EnsureSchema creates the marketplace tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// readChecks are the column sets the store reads, run with LIMIT 0.
var readChecks = []store.ReadCheck{
	{Relation: "shipment_offers", Query: `SELECT ` + offerColumns + ` FROM shipment_offers o LIMIT 0`},
	{Relation: "shipment_requests", Query: `SELECT ` + requestColumns + ` FROM shipment_requests r LIMIT 0`},
	{Relation: "bookings", Query: `SELECT id, offer_id, request_id, carrier_id, shipper_id, agreed_price, weight_kg,
        status, created_at, updated_at FROM bookings LIMIT 0`},
	{Relation: "profiles_public", Query: `SELECT id, company_name, company_type FROM profiles_public LIMIT 0`},
	{Relation: "user_roles", Query: `SELECT user_id, role FROM user_roles LIMIT 0`},
}

// Bootstrap verifies that every relation the store reads answers with the expected
// columns. EnsureSchema leaves pre-existing tables alone, so a table created by
// another tool can still lack a column.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	return store.CheckReads(ctx, db, readChecks)
}
