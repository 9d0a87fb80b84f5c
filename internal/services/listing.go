package services

import (
	"context"

	"github.com/semi-dlc/flowt-bb/internal/metrics"
	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
	"github.com/semi-dlc/flowt-bb/internal/tools"
)

// Source labels where a listing was created.
const (
	SourceChat = "chat"
	SourceForm = "form"
)

// ListingService creates and lists offers and requests.
type ListingService struct {
	store store.Store
}

func NewListingService(s store.Store) *ListingService {
	return &ListingService{store: s}
}

// CreateOffer maps args through the shared tool mapping and inserts an active offer for userID.
// Country codes are checked here so chat and form writes hold the same invariant.
func (s *ListingService) CreateOffer(ctx context.Context, userID, source string, args tools.OfferArgs) (*model.Offer, error) {
	if err := tools.CheckRoute(args.OriginCountry, args.DestinationCountry); err != nil {
		return nil, err
	}
	o, err := s.store.Offers().Create(ctx, args.ToOffer(userID))
	if err != nil {
		return nil, err
	}
	metrics.ListingsCreatedTotal.WithLabelValues("offer", source).Inc()
	return o, nil
}

// CreateRequest maps args and inserts an active request for userID.
func (s *ListingService) CreateRequest(ctx context.Context, userID, source string, args tools.RequestArgs) (*model.Request, error) {
	if err := tools.CheckRoute(args.OriginCountry, args.DestinationCountry); err != nil {
		return nil, err
	}
	r, err := s.store.Requests().Create(ctx, args.ToRequest(userID))
	if err != nil {
		return nil, err
	}
	metrics.ListingsCreatedTotal.WithLabelValues("request", source).Inc()
	return r, nil
}

func (s *ListingService) ListOffers(ctx context.Context, limit int) ([]*model.OfferListing, error) {
	return s.store.Offers().ListActive(ctx, model.ListOptions{Limit: limit})
}

func (s *ListingService) ListRequests(ctx context.Context, limit int) ([]*model.RequestListing, error) {
	return s.store.Requests().ListActive(ctx, model.ListOptions{Limit: limit})
}

func (s *ListingService) GetOffer(ctx context.Context, offerID string) (*model.Offer, error) {
	return s.store.Offers().GetByID(ctx, offerID)
}

func (s *ListingService) GetRequest(ctx context.Context, requestID string) (*model.Request, error) {
	return s.store.Requests().GetByID(ctx, requestID)
}
