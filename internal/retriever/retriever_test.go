package retriever

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

type fakeStore struct {
	offers      []*model.OfferListing
	requests    []*model.RequestListing
	bookings    []*model.Booking
	offersErr   error
	bookingsErr error

	offerCalls   atomic.Int32
	requestCalls atomic.Int32
	lastLimit    atomic.Int32
}

func (f *fakeStore) Offers() store.Offers     { return fakeOffers{f} }
func (f *fakeStore) Requests() store.Requests { return fakeRequests{f} }
func (f *fakeStore) Bookings() store.Bookings { return fakeBookings{f} }
func (f *fakeStore) Profiles() store.Profiles { return nil }
func (f *fakeStore) Roles() store.Roles       { return nil }

type fakeOffers struct{ f *fakeStore }

func (o fakeOffers) Create(context.Context, *model.Offer) (*model.Offer, error) { return nil, nil }
func (o fakeOffers) GetByID(context.Context, string) (*model.Offer, error)      { return nil, nil }
func (o fakeOffers) ListActive(_ context.Context, opts model.ListOptions) ([]*model.OfferListing, error) {
	o.f.offerCalls.Add(1)
	o.f.lastLimit.Store(int32(opts.Limit))
	return o.f.offers, o.f.offersErr
}

type fakeRequests struct{ f *fakeStore }

func (r fakeRequests) Create(context.Context, *model.Request) (*model.Request, error) { return nil, nil }
func (r fakeRequests) GetByID(context.Context, string) (*model.Request, error)        { return nil, nil }
func (r fakeRequests) ListActive(context.Context, model.ListOptions) ([]*model.RequestListing, error) {
	r.f.requestCalls.Add(1)
	return r.f.requests, nil
}

type fakeBookings struct{ f *fakeStore }

func (b fakeBookings) Create(context.Context, *model.Booking) (*model.Booking, error) { return nil, nil }
func (b fakeBookings) ListRecent(context.Context, int) ([]*model.Booking, error) {
	return b.f.bookings, b.f.bookingsErr
}

func TestClassify(t *testing.T) {
	cases := []struct {
		msg             string
		seeks, offers   bool
		wantOffersSec   bool
		wantRequestsSec bool
	}{
		{"I need to ship 500kg from Berlin DE to Paris FR", true, false, true, false},
		{"We have capacity available Hamburg to Warsaw", false, true, false, true},
		{"hello there", false, false, true, true},
		{"I NEED capacity next week", true, true, true, true},
		{"Shipping request for pallets", true, false, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			in := Classify(tc.msg)
			assert.Equal(t, tc.seeks, in.SeeksCapacity)
			assert.Equal(t, tc.offers, in.OffersCapacity)
			assert.Equal(t, tc.wantOffersSec, in.WantsOffers())
			assert.Equal(t, tc.wantRequestsSec, in.WantsRequests())
		})
	}
}

func sampleOffer() *model.OfferListing {
	return &model.OfferListing{
		Offer: model.Offer{
			Route: model.OfferRoute{
				Origin:          model.Location{City: "Hamburg", CountryCode: "DE"},
				Destination:     model.Location{City: "Warsaw", CountryCode: "PL"},
				PickupDateRange: model.DateRange{Earliest: "2025-11-03", Latest: "2025-11-03"},
			},
			Capacity:           model.Capacity{AvailableWeightKg: 8000, AvailableVolumeM3: 33.5},
			Pricing:            model.Pricing{PricePerKg: 0.12},
			AcceptedCargoTypes: model.AcceptedCargoTypes{Types: []string{"pallets", "boxes"}},
		},
		Company: model.Company{Name: "Nordfracht GmbH", Type: "carrier"},
	}
}

func sampleRequest() *model.RequestListing {
	return &model.RequestListing{
		Request: model.Request{
			Route: model.RequestRoute{
				Origin:             model.Location{City: "Lyon", CountryCode: "FR"},
				Destination:        model.Location{City: "Milan", CountryCode: "IT"},
				PickupDateRequired: model.DateRange{Earliest: "2025-11-10"},
			},
			Cargo: model.Cargo{Description: "Rolled fabric", WeightKg: 450},
		},
		Company: model.Company{Name: model.UnknownCompany},
	}
}

func TestRetrieve_FormatsSections(t *testing.T) {
	fs := &fakeStore{
		offers:   []*model.OfferListing{sampleOffer()},
		requests: []*model.RequestListing{sampleRequest()},
		bookings: []*model.Booking{{}, {}},
	}
	r := New(fs, zerolog.Nop())

	got := r.Retrieve(context.Background(), "hello")
	want := "\n\nAvailable Shipping Capacity:\n" +
		"- From Hamburg, DE to Warsaw, PL\n" +
		"  Company: Nordfracht GmbH\n" +
		"  Departure: 2025-11-03\n" +
		"  Available: 8000kg, 33.5m³\n" +
		"  Cargo types: pallets, boxes\n" +
		"  Price: €0.12/kg\n" +
		"\n" +
		"\n\nShipping Needs:\n" +
		"- From Lyon, FR to Milan, IT\n" +
		"  Company: Unknown Company\n" +
		"  Needed by: 2025-11-10\n" +
		"  Weight: 450kg\n" +
		"  Cargo type: Rolled fabric\n" +
		"\n" +
		"\n\nRecent Successful Matches: 2 bookings\n"
	assert.Equal(t, want, got.Text)
	assert.Equal(t, 2, got.BookingCount)
	assert.Equal(t, int32(SectionLimit), fs.lastLimit.Load())
}

func TestRetrieve_SeekingSkipsRequests(t *testing.T) {
	fs := &fakeStore{offers: []*model.OfferListing{sampleOffer()}}
	got := New(fs, zerolog.Nop()).Retrieve(context.Background(), "I need to ship 500kg from Berlin DE to Paris FR")

	assert.Equal(t, int32(1), fs.offerCalls.Load())
	assert.Equal(t, int32(0), fs.requestCalls.Load())
	assert.Contains(t, got.Text, "Available Shipping Capacity:")
	assert.NotContains(t, got.Text, "Shipping Needs:")
	assert.NotContains(t, got.Text, "Recent Successful Matches")
	assert.Zero(t, got.BookingCount)
}

func TestRetrieve_OfferingSkipsOffers(t *testing.T) {
	fs := &fakeStore{}
	got := New(fs, zerolog.Nop()).Retrieve(context.Background(), "capacity available on Friday")

	assert.Equal(t, int32(0), fs.offerCalls.Load())
	assert.Equal(t, int32(1), fs.requestCalls.Load())
	assert.Equal(t, "\n\nShipping Needs:\n", got.Text, "heading is kept for an empty section")
}

func TestRetrieve_FailedReadsAreOmitted(t *testing.T) {
	fs := &fakeStore{
		requests:    []*model.RequestListing{sampleRequest()},
		offersErr:   errors.New("relation does not exist"),
		bookingsErr: errors.New("timeout"),
	}
	got := New(fs, zerolog.Nop()).Retrieve(context.Background(), "hi")

	require.NotContains(t, got.Text, "Available Shipping Capacity:")
	require.Contains(t, got.Text, "Shipping Needs:")
	require.NotContains(t, got.Text, "relation does not exist")
	require.Zero(t, got.BookingCount)
}
