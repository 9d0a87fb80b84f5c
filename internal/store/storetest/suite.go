package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
// Rows are stamped in the future so a shared database does not disturb ordering checks.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Millisecond)

	carrierID := uuid.New().String()
	shipperID := uuid.New().String()
	anonID := uuid.New().String()

	_, err := s.Profiles().Upsert(ctx, &model.Profile{ID: carrierID, CompanyName: "Nordfracht GmbH", CompanyType: "carrier", Email: "ops@nordfracht.test"})
	require.NoError(t, err, "Upsert carrier profile")
	_, err = s.Profiles().Upsert(ctx, &model.Profile{ID: shipperID, CompanyName: "Lyon Textiles", CompanyType: "shipper"})
	require.NoError(t, err, "Upsert shipper profile")

	t.Run("Profiles", func(t *testing.T) {
		got, err := s.Profiles().Get(ctx, carrierID)
		require.NoError(t, err)
		require.Equal(t, "Nordfracht GmbH", got.CompanyName)

		_, err = s.Profiles().Upsert(ctx, &model.Profile{ID: carrierID, CompanyName: "Nordfracht AG", CompanyType: "carrier"})
		require.NoError(t, err)
		got, err = s.Profiles().Get(ctx, carrierID)
		require.NoError(t, err)
		require.Equal(t, "Nordfracht AG", got.CompanyName)

		_, err = s.Profiles().Get(ctx, uuid.New().String())
		require.True(t, errors.Is(err, model.ErrNotFound), "want ErrNotFound, got %v", err)
	})

	t.Run("Offers", func(t *testing.T) {
		first := sampleOffer(carrierID, base.Add(1*time.Second))
		created, err := s.Offers().Create(ctx, first)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Equal(t, model.StatusActive, created.Status)

		got, err := s.Offers().GetByID(ctx, created.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(created, got, cmpopts.IgnoreFields(model.Offer{}, "CreatedAt", "UpdatedAt")); diff != "" {
			t.Fatalf("offer round trip mismatch (-want +got):\n%s", diff)
		}

		cancelled := sampleOffer(carrierID, base.Add(2*time.Second))
		cancelled.Status = model.StatusCancelled
		_, err = s.Offers().Create(ctx, cancelled)
		require.NoError(t, err)

		newest := sampleOffer(anonID, base.Add(3*time.Second))
		newest.Route.Destination.City = "Warsaw"
		_, err = s.Offers().Create(ctx, newest)
		require.NoError(t, err)

		lst, err := s.Offers().ListActive(ctx, model.ListOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, lst, 2)
		require.Equal(t, "Warsaw", lst[0].Route.Destination.City, "newest active offer first")
		require.Equal(t, model.UnknownCompany, lst[0].Company.Name)
		require.Equal(t, created.ID, lst[1].ID, "cancelled offer must be skipped")
		require.Equal(t, "carrier", lst[1].Company.Type)

		_, err = s.Offers().GetByID(ctx, uuid.New().String())
		require.True(t, errors.Is(err, model.ErrNotFound), "want ErrNotFound, got %v", err)
	})

	t.Run("Requests", func(t *testing.T) {
		older := sampleRequest(shipperID, base.Add(1*time.Second))
		created, err := s.Requests().Create(ctx, older)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := s.Requests().GetByID(ctx, created.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(created, got, cmpopts.IgnoreFields(model.Request{}, "CreatedAt", "UpdatedAt")); diff != "" {
			t.Fatalf("request round trip mismatch (-want +got):\n%s", diff)
		}

		newer := sampleRequest(shipperID, base.Add(2*time.Second))
		newer.Cargo.WeightKg = 900
		_, err = s.Requests().Create(ctx, newer)
		require.NoError(t, err)

		lst, err := s.Requests().ListActive(ctx, model.ListOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, lst, 2)
		require.Equal(t, 900.0, lst[0].Cargo.WeightKg)
		require.Equal(t, "Lyon Textiles", lst[0].Company.Name)
		require.Equal(t, created.ID, lst[1].ID)
	})

	t.Run("Bookings", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			_, err := s.Bookings().Create(ctx, &model.Booking{
				OfferID:     uuid.New().String(),
				RequestID:   uuid.New().String(),
				CarrierID:   carrierID,
				ShipperID:   shipperID,
				AgreedPrice: float64(100 * (i + 1)),
				WeightKg:    500,
				Status:      model.StatusCompleted,
				CreatedAt:   base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}
		lst, err := s.Bookings().ListRecent(ctx, 5)
		require.NoError(t, err)
		require.Len(t, lst, 5)
		require.Equal(t, 600.0, lst[0].AgreedPrice, "newest booking first")
	})

	t.Run("Roles", func(t *testing.T) {
		ok, err := s.Roles().HasRole(ctx, carrierID, model.RoleDeveloper)
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, s.Roles().Grant(ctx, carrierID, model.RoleDeveloper))
		require.NoError(t, s.Roles().Grant(ctx, carrierID, model.RoleDeveloper), "grant must be idempotent")

		ok, err = s.Roles().HasRole(ctx, carrierID, model.RoleDeveloper)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Roles().HasRole(ctx, shipperID, model.RoleDeveloper)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func sampleOffer(userID string, at time.Time) *model.Offer {
	return &model.Offer{
		UserID: userID,
		Route: model.OfferRoute{
			Origin:          model.Location{City: "Hamburg", CountryCode: "DE", PostalCode: "20095"},
			Destination:     model.Location{City: "Rotterdam", CountryCode: "NL"},
			PickupDateRange: model.DateRange{Earliest: "2025-11-03", Latest: "2025-11-03"},
			CrossBorder:     true,
		},
		Capacity: model.Capacity{AvailableWeightKg: 12000, AvailableVolumeM3: 40},
		Vehicle: model.Vehicle{
			Type:      "semi",
			FuelType:  "diesel",
			Equipment: []string{},
		},
		Pricing:             model.Pricing{PricePerKg: 0.12, Currency: model.DefaultCurrency, PricingModel: model.PricingPerKg},
		AcceptedCargoTypes:  model.AcceptedCargoTypes{Types: []string{"pallets"}},
		Carrier:             map[string]interface{}{},
		CustomsCapabilities: model.CustomsCapabilities{},
		Status:              model.StatusActive,
		CreatedAt:           at,
	}
}

func sampleRequest(userID string, at time.Time) *model.Request {
	return &model.Request{
		UserID: userID,
		Route: model.RequestRoute{
			Origin:             model.Location{City: "Lyon", CountryCode: "FR"},
			Destination:        model.Location{City: "Milan", CountryCode: "IT"},
			PickupDateRequired: model.DateRange{Earliest: "2025-11-10", Latest: "2025-11-10"},
			CrossBorder:        true,
		},
		Cargo: model.Cargo{
			Description:   "Rolled fabric",
			WeightKg:      450,
			PackagingType: model.DefaultPackaging,
			Currency:      model.DefaultCurrency,
		},
		Shipper:   map[string]interface{}{},
		Status:    model.StatusActive,
		CreatedAt: at,
	}
}
