package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// NewWithDB constructs a SQLite-backed store. Call EnsureSchema first.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Offers() store.Offers     { return &offers{db: s.db} }
func (s *liteStore) Requests() store.Requests { return &requests{db: s.db} }
func (s *liteStore) Bookings() store.Bookings { return &bookings{db: s.db} }
func (s *liteStore) Profiles() store.Profiles { return &profiles{db: s.db} }
func (s *liteStore) Roles() store.Roles       { return &roles{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *liteStore) Close() error { return s.db.Close() }

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return err
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

type scanner interface {
	Scan(dest ...interface{}) error
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
	created := toNanos(out.CreatedAt)
	out.CreatedAt = fromNanos(created)
	out.UpdatedAt = out.CreatedAt

	docs, err := store.EncodeOffer(&out)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO shipment_offers (id, user_id, route, capacity, vehicle, pricing, accepted_cargo_types,
            carrier, customs_capabilities, status, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, string(docs.Route), string(docs.Capacity), string(docs.Vehicle), string(docs.Pricing),
		string(docs.AcceptedCargoTypes), string(docs.Carrier), string(docs.CustomsCapabilities),
		string(out.Status), created, created); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *offers) GetByID(ctx context.Context, offerID string) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM shipment_offers o WHERE o.id=?`, offerID)
	var out model.Offer
	if err := scanOffer(row, &out); err != nil {
		return nil, notFound(err, "offer "+offerID)
	}
	return &out, nil
}

func (r *offers) ListActive(ctx context.Context, opts model.ListOptions) ([]*model.OfferListing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+offerColumns+`,
            COALESCE(p.company_name, ?), COALESCE(p.company_type, '')
        FROM shipment_offers o
        LEFT JOIN profiles_public p ON p.id = o.user_id
        WHERE o.status = 'active'
        ORDER BY o.created_at DESC
        LIMIT ?
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

func scanOffer(sc scanner, o *model.Offer, extra ...interface{}) error {
	var docs store.OfferDocs
	var status string
	var created, updated int64
	var pricing, accepted, carrier, customs sql.NullString
	dest := []interface{}{&o.ID, &o.UserID, &docs.Route, &docs.Capacity, &docs.Vehicle, &pricing,
		&accepted, &carrier, &customs, &status, &created, &updated}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	docs.Pricing = []byte(pricing.String)
	docs.AcceptedCargoTypes = []byte(accepted.String)
	docs.Carrier = []byte(carrier.String)
	docs.CustomsCapabilities = []byte(customs.String)
	o.Status = model.ListingStatus(status)
	o.CreatedAt = fromNanos(created)
	o.UpdatedAt = fromNanos(updated)
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
	created := toNanos(out.CreatedAt)
	out.CreatedAt = fromNanos(created)
	out.UpdatedAt = out.CreatedAt

	docs, err := store.EncodeRequest(&out)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO shipment_requests (id, user_id, route, cargo, dangerous_goods, customs_trade,
            special_requirements, shipper, status, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, string(docs.Route), string(docs.Cargo), string(docs.DangerousGoods),
		string(docs.CustomsTrade), string(docs.SpecialRequirements), string(docs.Shipper),
		string(out.Status), created, created); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *requests) GetByID(ctx context.Context, requestID string) (*model.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM shipment_requests r WHERE r.id=?`, requestID)
	var out model.Request
	if err := scanRequest(row, &out); err != nil {
		return nil, notFound(err, "request "+requestID)
	}
	return &out, nil
}

func (r *requests) ListActive(ctx context.Context, opts model.ListOptions) ([]*model.RequestListing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+requestColumns+`,
            COALESCE(p.company_name, ?), COALESCE(p.company_type, '')
        FROM shipment_requests r
        LEFT JOIN profiles_public p ON p.id = r.user_id
        WHERE r.status = 'active'
        ORDER BY r.created_at DESC
        LIMIT ?
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
	var created, updated int64
	var dangerous, customs, special, shipper sql.NullString
	dest := []interface{}{&r.ID, &r.UserID, &docs.Route, &docs.Cargo, &dangerous, &customs,
		&special, &shipper, &status, &created, &updated}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	docs.DangerousGoods = []byte(dangerous.String)
	docs.CustomsTrade = []byte(customs.String)
	docs.SpecialRequirements = []byte(special.String)
	docs.Shipper = []byte(shipper.String)
	r.Status = model.ListingStatus(status)
	r.CreatedAt = fromNanos(created)
	r.UpdatedAt = fromNanos(updated)
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
	created := toNanos(out.CreatedAt)
	out.CreatedAt = fromNanos(created)
	out.UpdatedAt = out.CreatedAt
	if _, err := b.db.ExecContext(ctx, `
        INSERT INTO bookings (id, offer_id, request_id, carrier_id, shipper_id, agreed_price, weight_kg, status, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.OfferID, out.RequestID, out.CarrierID, out.ShipperID, out.AgreedPrice, out.WeightKg,
		string(out.Status), created, created); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *bookings) ListRecent(ctx context.Context, limit int) ([]*model.Booking, error) {
	rows, err := b.db.QueryContext(ctx, `
        SELECT id, offer_id, request_id, carrier_id, shipper_id, agreed_price, weight_kg, status, created_at, updated_at
        FROM bookings ORDER BY created_at DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Booking
	for rows.Next() {
		var bk model.Booking
		var status string
		var created, updated int64
		if err := rows.Scan(&bk.ID, &bk.OfferID, &bk.RequestID, &bk.CarrierID, &bk.ShipperID, &bk.AgreedPrice,
			&bk.WeightKg, &status, &created, &updated); err != nil {
			return nil, err
		}
		bk.Status = model.ListingStatus(status)
		bk.CreatedAt = fromNanos(created)
		bk.UpdatedAt = fromNanos(updated)
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
	now := toNanos(time.Time{})
	var created, updated int64
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO profiles (id, company_name, company_type, contact_person, email, phone, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?)
        ON CONFLICT (id) DO UPDATE SET
            company_name = excluded.company_name,
            company_type = excluded.company_type,
            contact_person = excluded.contact_person,
            email = excluded.email,
            phone = excluded.phone,
            updated_at = excluded.updated_at
        RETURNING created_at, updated_at
    `, out.ID, out.CompanyName, out.CompanyType, out.ContactPerson, out.Email, out.Phone, now, now)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out.CreatedAt = fromNanos(created)
	out.UpdatedAt = fromNanos(updated)
	return &out, nil
}

func (p *profiles) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	var out model.Profile
	var created, updated int64
	row := p.db.QueryRowContext(ctx, `
        SELECT id, company_name, company_type, contact_person, email, phone, created_at, updated_at
        FROM profiles WHERE id=?
    `, profileID)
	if err := row.Scan(&out.ID, &out.CompanyName, &out.CompanyType, &out.ContactPerson, &out.Email, &out.Phone,
		&created, &updated); err != nil {
		return nil, notFound(err, "profile "+profileID)
	}
	out.CreatedAt = fromNanos(created)
	out.UpdatedAt = fromNanos(updated)
	return &out, nil
}

// --- Roles ---
type roles struct{ db *sql.DB }

func (r *roles) Grant(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_roles (id, user_id, role, created_at) VALUES (?,?,?,?)
        ON CONFLICT (user_id, role) DO NOTHING
    `, uuid.New().String(), userID, role, toNanos(time.Time{}))
	return err
}

func (r *roles) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM user_roles WHERE user_id=? AND role=?`, userID, role).Scan(&n)
	return n > 0, err
}
