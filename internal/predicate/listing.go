package predicate

import (
	"slices"
	"strings"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
)

var listingSchema = Schema[housing.Listing, criteria.ListingCriteria]{
	{
		Name:   "search",
		Active: func(c criteria.ListingCriteria) bool { return strings.TrimSpace(c.Search) != "" },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return containsAnyFold(c.Search, l.Title, l.Location)
		},
	},
	{
		Name:   "price",
		Active: func(c criteria.ListingCriteria) bool { return c.PriceRange.Active() },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return c.PriceRange.Contains(float64(l.Price))
		},
	},
	{
		Name:   "distance",
		Active: func(c criteria.ListingCriteria) bool { return c.DistanceActive() },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return l.Distance <= *c.MaxDistance
		},
	},
	{
		Name:   "room_type",
		Active: func(c criteria.ListingCriteria) bool { return hasNonBlank(c.RoomTypes) },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			rt := strings.ToLower(strings.TrimSpace(l.RoomType))
			for _, want := range c.RoomTypes {
				want = strings.ToLower(strings.TrimSpace(want))
				if want == "" {
					continue
				}
				// "Studio" matches "Studio Apartment" and the other way round.
				if strings.Contains(rt, want) || strings.Contains(want, rt) {
					return true
				}
			}
			return false
		},
	},
	{
		Name:   "facilities",
		Active: func(c criteria.ListingCriteria) bool { return hasNonBlank(c.Facilities) },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			for _, f := range c.Facilities {
				if strings.TrimSpace(f) == "" {
					continue
				}
				if !l.HasFacility(f) {
					return false
				}
			}
			return true
		},
	},
	{
		Name:   "bedrooms",
		Active: func(c criteria.ListingCriteria) bool { return !c.Bedrooms.Any() },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return c.Bedrooms.Matches(l.BedroomCount())
		},
	},
	{
		Name:   "bathrooms",
		Active: func(c criteria.ListingCriteria) bool { return !c.Bathrooms.Any() },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return c.Bathrooms.Matches(l.BathroomCount())
		},
	},
	{
		Name:   "lease_duration",
		Active: func(c criteria.ListingCriteria) bool { return !c.LeaseDuration.Any() },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			// Listings without a stated lease are negotiable.
			return l.LeaseMonths <= 0 || c.LeaseDuration.Matches(l.LeaseMonths)
		},
	},
	{
		Name:   "available_now",
		Active: func(c criteria.ListingCriteria) bool { return c.AvailableNow },
		Test: func(l housing.Listing, _ criteria.ListingCriteria) bool {
			return l.Available
		},
	},
	{
		Name:   "keyword",
		Active: func(c criteria.ListingCriteria) bool { return strings.TrimSpace(c.Keyword) != "" },
		Test: func(l housing.Listing, c criteria.ListingCriteria) bool {
			return containsAnyFold(c.Keyword, append([]string{l.Description}, l.Facilities...)...)
		},
	},
}

// ListingSchema returns a copy of the listing field schema.
func ListingSchema() Schema[housing.Listing, criteria.ListingCriteria] {
	return slices.Clone(listingSchema)
}

func EvaluateListing(l housing.Listing, c criteria.ListingCriteria) Evaluation {
	return listingSchema.Evaluate(l, c)
}

func ListingPasses(l housing.Listing, c criteria.ListingCriteria) bool {
	return listingSchema.Passes(l, c)
}

// FilterListings keeps the listings matching c in their original order.
func FilterListings(ls []housing.Listing, c criteria.ListingCriteria) []housing.Listing {
	return listingSchema.Filter(ls, c)
}

func containsAnyFold(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
