package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/semi-dlc/flowt-bb/internal/store"
)

// Timestamps are unix nanoseconds; JSON documents are TEXT.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
        id TEXT PRIMARY KEY,
        company_name TEXT NOT NULL DEFAULT '',
        company_type TEXT NOT NULL DEFAULT '',
        contact_person TEXT NOT NULL DEFAULT '',
        email TEXT NOT NULL DEFAULT '',
        phone TEXT NOT NULL DEFAULT '',
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    )`,
	`CREATE VIEW IF NOT EXISTS profiles_public AS
        SELECT id, company_name, company_type, created_at FROM profiles`,
	`CREATE TABLE IF NOT EXISTS user_roles (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('developer','user')),
        created_at INTEGER NOT NULL,
        UNIQUE (user_id, role)
    )`,
	`CREATE TABLE IF NOT EXISTS shipment_offers (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        route TEXT NOT NULL,
        capacity TEXT NOT NULL,
        vehicle TEXT NOT NULL,
        pricing TEXT,
        accepted_cargo_types TEXT,
        carrier TEXT,
        customs_capabilities TEXT,
        status TEXT NOT NULL DEFAULT 'active',
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS shipment_offers_status_created_idx ON shipment_offers (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS shipment_requests (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        route TEXT NOT NULL,
        cargo TEXT NOT NULL,
        dangerous_goods TEXT,
        customs_trade TEXT,
        special_requirements TEXT,
        shipper TEXT,
        status TEXT NOT NULL DEFAULT 'active',
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS shipment_requests_status_created_idx ON shipment_requests (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS bookings (
        id TEXT PRIMARY KEY,
        offer_id TEXT NOT NULL,
        request_id TEXT NOT NULL,
        carrier_id TEXT NOT NULL,
        shipper_id TEXT NOT NULL,
        agreed_price REAL NOT NULL DEFAULT 0,
        weight_kg REAL NOT NULL DEFAULT 0,
        status TEXT NOT NULL DEFAULT 'active',
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS bookings_created_idx ON bookings (created_at DESC)`,
}

// EnsureSchema creates the marketplace tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

var readChecks = []store.ReadCheck{
	{Relation: "shipment_offers", Query: `SELECT ` + offerColumns + ` FROM shipment_offers o LIMIT 0`},
	{Relation: "shipment_requests", Query: `SELECT ` + requestColumns + ` FROM shipment_requests r LIMIT 0`},
	{Relation: "bookings", Query: `SELECT id, offer_id, request_id, carrier_id, shipper_id, agreed_price, weight_kg,
        status, created_at, updated_at FROM bookings LIMIT 0`},
	{Relation: "profiles_public", Query: `SELECT id, company_name, company_type FROM profiles_public LIMIT 0`},
	{Relation: "user_roles", Query: `SELECT user_id, role FROM user_roles LIMIT 0`},
}

// Bootstrap checks that the relations the store reads expose the expected columns.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	return store.CheckReads(ctx, db, readChecks)
}
