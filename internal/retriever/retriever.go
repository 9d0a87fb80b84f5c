package retriever

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/semi-dlc/flowt-bb/internal/metrics"
	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

const (
	// SectionLimit caps listings per context section.
	SectionLimit = 10
	// BookingLimit caps the bookings counted for market activity.
	BookingLimit = 5

	offersHeading   = "\n\nAvailable Shipping Capacity:\n"
	requestsHeading = "\n\nShipping Needs:\n"
)

// Block is the retrieved market context for one chat turn.
type Block struct {
	Text         string
	BookingCount int
}

// Retriever reads active listings and recent bookings into prompt text.
type Retriever struct {
	store store.Store
	log   zerolog.Logger
}

func New(st store.Store, log zerolog.Logger) *Retriever {
	return &Retriever{store: st, log: log}
}

// Retrieve never fails: a section whose read errors is logged and left out.
func (r *Retriever) Retrieve(ctx context.Context, message string) Block {
	intent := Classify(message)

	var (
		offers   []*model.OfferListing
		requests []*model.RequestListing
		bookings []*model.Booking
		offersOK bool
		reqOK    bool
	)

	var g errgroup.Group
	if intent.WantsOffers() {
		g.Go(func() error {
			lst, err := r.store.Offers().ListActive(ctx, model.ListOptions{Limit: SectionLimit})
			if err != nil {
				r.skip("offers", err)
				return nil
			}
			offers, offersOK = lst, true
			return nil
		})
	}
	if intent.WantsRequests() {
		g.Go(func() error {
			lst, err := r.store.Requests().ListActive(ctx, model.ListOptions{Limit: SectionLimit})
			if err != nil {
				r.skip("requests", err)
				return nil
			}
			requests, reqOK = lst, true
			return nil
		})
	}
	g.Go(func() error {
		lst, err := r.store.Bookings().ListRecent(ctx, BookingLimit)
		if err != nil {
			r.skip("bookings", err)
			return nil
		}
		bookings = lst
		return nil
	})
	_ = g.Wait()

	var b strings.Builder
	if offersOK {
		b.WriteString(offersHeading)
		for _, o := range offers {
			writeOffer(&b, o)
		}
	}
	if reqOK {
		b.WriteString(requestsHeading)
		for _, req := range requests {
			writeRequest(&b, req)
		}
	}
	if len(bookings) > 0 {
		fmt.Fprintf(&b, "\n\nRecent Successful Matches: %d bookings\n", len(bookings))
	}

	r.log.Debug().
		Bool("seeks_capacity", intent.SeeksCapacity).
		Bool("offers_capacity", intent.OffersCapacity).
		Int("offers", len(offers)).
		Int("requests", len(requests)).
		Int("bookings", len(bookings)).
		Int("context_length", b.Len()).
		Msg("context retrieved")

	return Block{Text: b.String(), BookingCount: len(bookings)}
}

func (r *Retriever) skip(section string, err error) {
	metrics.ContextSectionFailuresTotal.WithLabelValues(section).Inc()
	r.log.Warn().Err(err).Str("section", section).Msg("context read failed; section omitted")
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func writeRoute(b *strings.Builder, origin, dest model.Location, company string) {
	fmt.Fprintf(b, "- From %s, %s to %s, %s\n", origin.City, origin.CountryCode, dest.City, dest.CountryCode)
	fmt.Fprintf(b, "  Company: %s\n", company)
}

func writeOffer(b *strings.Builder, o *model.OfferListing) {
	writeRoute(b, o.Route.Origin, o.Route.Destination, o.Company.Name)
	fmt.Fprintf(b, "  Departure: %s\n", o.Route.PickupDateRange.Earliest)
	fmt.Fprintf(b, "  Available: %skg", num(o.Capacity.AvailableWeightKg))
	if o.Capacity.AvailableVolumeM3 > 0 {
		fmt.Fprintf(b, ", %sm³", num(o.Capacity.AvailableVolumeM3))
	}
	fmt.Fprintf(b, "\n  Cargo types: %s\n", strings.Join(o.AcceptedCargoTypes.Types, ", "))
	if o.Pricing.PricePerKg > 0 {
		fmt.Fprintf(b, "  Price: €%s/kg\n", num(o.Pricing.PricePerKg))
	}
	b.WriteString("\n")
}

func writeRequest(b *strings.Builder, r *model.RequestListing) {
	writeRoute(b, r.Route.Origin, r.Route.Destination, r.Company.Name)
	fmt.Fprintf(b, "  Needed by: %s\n", r.Route.PickupDateRequired.Earliest)
	fmt.Fprintf(b, "  Weight: %skg", num(r.Cargo.WeightKg))
	if r.Cargo.VolumeM3 > 0 {
		fmt.Fprintf(b, ", %sm³", num(r.Cargo.VolumeM3))
	}
	fmt.Fprintf(b, "\n  Cargo type: %s\n", r.Cargo.Description)
	b.WriteString("\n")
}
