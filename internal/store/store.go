package store

import (
	"context"

	"github.com/semi-dlc/flowt-bb/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Offers() Offers
	Requests() Requests
	Bookings() Bookings
	Profiles() Profiles
	Roles() Roles
}

// Offers persists carrier capacity listings.
type Offers interface {
	Create(ctx context.Context, o *model.Offer) (*model.Offer, error)
	GetByID(ctx context.Context, offerID string) (*model.Offer, error)
	// ListActive returns active offers newest first, joined to the owner's public profile.
	ListActive(ctx context.Context, opts model.ListOptions) ([]*model.OfferListing, error)
}

// Requests persists shipper transport needs.
type Requests interface {
	Create(ctx context.Context, r *model.Request) (*model.Request, error)
	GetByID(ctx context.Context, requestID string) (*model.Request, error)
	ListActive(ctx context.Context, opts model.ListOptions) ([]*model.RequestListing, error)
}

// Bookings is read-only for the service; Create exists for seeding.
type Bookings interface {
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Booking, error)
}

type Profiles interface {
	Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error)
	Get(ctx context.Context, profileID string) (*model.Profile, error)
}

type Roles interface {
	Grant(ctx context.Context, userID, role string) error
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// Limit caps opts.Limit to [1,max], substituting def when unset.
func Limit(opts model.ListOptions, def, max int) int {
	switch {
	case opts.Limit <= 0:
		return def
	case opts.Limit > max:
		return max
	default:
		return opts.Limit
	}
}
