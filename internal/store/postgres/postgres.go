package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Offers() store.Offers     { return &offers{db: s.db} }
func (s *pgStore) Requests() store.Requests { return &requests{db: s.db} }
func (s *pgStore) Bookings() store.Bookings { return &bookings{db: s.db} }
func (s *pgStore) Profiles() store.Profiles { return &profiles{db: s.db} }
func (s *pgStore) Roles() store.Roles       { return &roles{db: s.db} }

// HealthPing implements health.HealthPinger for Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying pool.
func (s *pgStore) Close() error { return s.db.Close() }

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return err
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// --- Offers ---
type offers struct{ db *sql.DB }

const offerColumns = `o.id, o.user_id, o.route, o.capacity, o.vehicle, o.pricing, o.accepted_cargo_types,
        o.carrier, o.customs_capabilities, o.status, o.created_at, o.updated_at`

func (r *offers) Create(ctx context.Context, o *model.Offer) (*model.Offer, error) {
	out := *o
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = model.StatusActive
	}
	out.CreatedAt = stamp(out.CreatedAt)
	out.UpdatedAt = out.CreatedAt

	docs, err := store.EncodeOffer(&out)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO shipment_offers (id, user_id, route, capacity, vehicle, pricing, accepted_cargo_types,
            carrier, customs_capabilities, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, out.ID, out.UserID, docs.Route, docs.Capacity, docs.Vehicle, docs.Pricing, docs.AcceptedCargoTypes,
		docs.Carrier, docs.CustomsCapabilities, string(out.Status), out.CreatedAt, out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *offers) GetByID(ctx context.Context, offerID string) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM shipment_offers o WHERE o.id=$1`, offerID)
	var out model.Offer
	if err := scanOffer(row, &out); err != nil {
		return nil, notFound(err, "offer "+offerID)
	}
	return &out, nil
}

func (r *offers) ListActive(ctx context.Context, opts model.ListOptions) ([]*model.OfferListing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+offerColumns+`,
            COALESCE(p.company_name, $1), COALESCE(p.company_type, '')
        FROM shipment_offers o
        LEFT JOIN profiles_public p ON p.id = o.user_id
        WHERE o.status = 'active'
        ORDER BY o.created_at DESC
        LIMIT $2
    `, model.UnknownCompany, store.Limit(opts, defaultListLimit, maxListLimit))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.OfferListing
	for rows.Next() {
		var l model.OfferListing
		if err := scanOffer(rows, &l.Offer, &l.Company.Name, &l.Company.Type); err != nil {
			return nil, err
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOffer(sc scanner, o *model.Offer, extra ...interface{}) error {
	var docs store.OfferDocs
	var status string
	dest := []interface{}{&o.ID, &o.UserID, &docs.Route, &docs.Capacity, &docs.Vehicle, &docs.Pricing,
		&docs.AcceptedCargoTypes, &docs.Carrier, &docs.CustomsCapabilities, &status, &o.CreatedAt, &o.UpdatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	o.Status = model.ListingStatus(status)
	return docs.Decode(o)
}

// --- Requests ---
type requests struct{ db *sql.DB }

const requestColumns = `r.id, r.user_id, r.route, r.cargo, r.dangerous_goods, r.customs_trade,
        r.special_requirements, r.shipper, r.status, r.created_at, r.updated_at`

func (r *requests) Create(ctx context.Context, req *model.Request) (*model.Request, error) {
	out := *req
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = model.StatusActive
	}
	out.CreatedAt = stamp(out.CreatedAt)
	out.UpdatedAt = out.CreatedAt

	docs, err := store.EncodeRequest(&out)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO shipment_requests (id, user_id, route, cargo, dangerous_goods, customs_trade,
            special_requirements, shipper, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, out.ID, out.UserID, docs.Route, docs.Cargo, docs.DangerousGoods, docs.CustomsTrade,
		docs.SpecialRequirements, docs.Shipper, string(out.Status), out.CreatedAt, out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *requests) GetByID(ctx context.Context, requestID string) (*model.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM shipment_requests r WHERE r.id=$1`, requestID)
	var out model.Request
	if err := scanRequest(row, &out); err != nil {
		return nil, notFound(err, "request "+requestID)
	}
	return &out, nil
}

func (r *requests) ListActive(ctx context.Context, opts model.ListOptions) ([]*model.RequestListing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+requestColumns+`,
            COALESCE(p.company_name, $1), COALESCE(p.company_type, '')
        FROM shipment_requests r
        LEFT JOIN profiles_public p ON p.id = r.user_id
        WHERE r.status = 'active'
        ORDER BY r.created_at DESC
        LIMIT $2
    `, model.UnknownCompany, store.Limit(opts, defaultListLimit, maxListLimit))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.RequestListing
	for rows.Next() {
		var l model.RequestListing
		if err := scanRequest(rows, &l.Request, &l.Company.Name, &l.Company.Type); err != nil {
			return nil, err
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}

func scanRequest(sc scanner, r *model.Request, extra ...interface{}) error {
	var docs store.RequestDocs
	var status string
	dest := []interface{}{&r.ID, &r.UserID, &docs.Route, &docs.Cargo, &docs.DangerousGoods, &docs.CustomsTrade,
		&docs.SpecialRequirements, &docs.Shipper, &status, &r.CreatedAt, &r.UpdatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	r.Status = model.ListingStatus(status)
	return docs.Decode(r)
}

// --- Bookings ---
type bookings struct{ db *sql.DB }

func (b *bookings) Create(ctx context.Context, bk *model.Booking) (*model.Booking, error) {
	out := *bk
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = model.StatusActive
	}
	out.CreatedAt = stamp(out.CreatedAt)
	out.UpdatedAt = out.CreatedAt
	if _, err := b.db.ExecContext(ctx, `
        INSERT INTO bookings (id, offer_id, request_id, carrier_id, shipper_id, agreed_price, weight_kg, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, out.ID, out.OfferID, out.RequestID, out.CarrierID, out.ShipperID, out.AgreedPrice, out.WeightKg,
		string(out.Status), out.CreatedAt, out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *bookings) ListRecent(ctx context.Context, limit int) ([]*model.Booking, error) {
	rows, err := b.db.QueryContext(ctx, `
        SELECT id, offer_id, request_id, carrier_id, shipper_id, agreed_price::float8, weight_kg::float8,
            status, created_at, updated_at
        FROM bookings ORDER BY created_at DESC LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Booking
	for rows.Next() {
		var bk model.Booking
		var status string
		if err := rows.Scan(&bk.ID, &bk.OfferID, &bk.RequestID, &bk.CarrierID, &bk.ShipperID, &bk.AgreedPrice,
			&bk.WeightKg, &status, &bk.CreatedAt, &bk.UpdatedAt); err != nil {
			return nil, err
		}
		bk.Status = model.ListingStatus(status)
		res = append(res, &bk)
	}
	return res, rows.Err()
}

// --- Profiles ---
type profiles struct{ db *sql.DB }

func (p *profiles) Upsert(ctx context.Context, m *model.Profile) (*model.Profile, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO profiles (id, company_name, company_type, contact_person, email, phone)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE SET
            company_name = EXCLUDED.company_name,
            company_type = EXCLUDED.company_type,
            contact_person = EXCLUDED.contact_person,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            updated_at = now()
        RETURNING created_at, updated_at
    `, out.ID, out.CompanyName, out.CompanyType, out.ContactPerson, out.Email, out.Phone)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *profiles) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	var out model.Profile
	row := p.db.QueryRowContext(ctx, `
        SELECT id, company_name, company_type, contact_person, email, phone, created_at, updated_at
        FROM profiles WHERE id=$1
    `, profileID)
	if err := row.Scan(&out.ID, &out.CompanyName, &out.CompanyType, &out.ContactPerson, &out.Email, &out.Phone,
		&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, notFound(err, "profile "+profileID)
	}
	return &out, nil
}

// --- Roles ---
type roles struct{ db *sql.DB }

func (r *roles) Grant(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_roles (id, user_id, role) VALUES ($1,$2,$3)
        ON CONFLICT (user_id, role) DO NOTHING
    `, uuid.New().String(), userID, role)
	return err
}

func (r *roles) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id=$1 AND role=$2)
    `, userID, role).Scan(&ok)
	return ok, err
}
