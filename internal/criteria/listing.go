package criteria

import (
	"fmt"
	"strings"

	"github.com/spigell/roomeo/internal/housing"
)

// Reset values of the room filters. A price range equal to the default and a
// distance bound at or above the default are not reported as active tags.
const (
	DefaultPriceMin    = 0
	DefaultPriceMax    = 2000
	DefaultMaxDistance = 10
)

// ListingCriteria is the set of room filters a student selected.
// The zero value matches every listing.
type ListingCriteria struct {
	Search        string
	PriceRange    *Range
	MaxDistance   *float64
	RoomTypes     []string
	Facilities    []string
	Bedrooms      Count
	Bathrooms     Count
	LeaseDuration Count
	AvailableNow  bool
	Keyword       string
	SortBy        SortBy
}

// DistanceActive reports whether MaxDistance holds a usable bound.
func (c ListingCriteria) DistanceActive() bool {
	return c.MaxDistance != nil && finite(*c.MaxDistance) && *c.MaxDistance >= 0
}

// Normalize returns a copy with reversed ranges reordered, malformed bounds
// dropped, sets de-duplicated and the sort key canonicalised.
func (c ListingCriteria) Normalize() ListingCriteria {
	out := c
	out.Search = strings.TrimSpace(c.Search)
	out.Keyword = strings.TrimSpace(c.Keyword)
	out.PriceRange = nil
	if c.PriceRange.Active() {
		r := c.PriceRange.ordered()
		out.PriceRange = &r
	}
	out.MaxDistance = nil
	if c.DistanceActive() {
		d := *c.MaxDistance
		out.MaxDistance = &d
	}
	out.RoomTypes = housing.UniqueFold(c.RoomTypes)
	out.Facilities = housing.UniqueFold(c.Facilities)
	out.SortBy = ParseSortBy(string(c.SortBy))
	return out
}

// Tag is an active filter chip.
type Tag struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ActiveTags lists one tag per active criterion in a stable order.
func (c ListingCriteria) ActiveTags() []Tag {
	n := c.Normalize()
	var tags []Tag
	if n.Search != "" {
		tags = append(tags, Tag{Key: "search", Label: fmt.Sprintf("%q", n.Search)})
	}
	if n.PriceRange.Active() && !n.PriceRange.Equal(&Range{Min: DefaultPriceMin, Max: DefaultPriceMax}) {
		tags = append(tags, Tag{Key: "price", Label: "RM " + n.PriceRange.String()})
	}
	if n.MaxDistance != nil && *n.MaxDistance < DefaultMaxDistance {
		tags = append(tags, Tag{Key: "distance", Label: "< " + formatNumber(*n.MaxDistance) + "km"})
	}
	for _, t := range n.RoomTypes {
		tags = append(tags, Tag{Key: "roomType-" + t, Label: t})
	}
	for _, f := range n.Facilities {
		tags = append(tags, Tag{Key: "facility-" + f, Label: f})
	}
	if !n.Bedrooms.Any() {
		tags = append(tags, Tag{Key: "bedrooms", Label: n.Bedrooms.String() + " bedrooms"})
	}
	if !n.Bathrooms.Any() {
		tags = append(tags, Tag{Key: "bathrooms", Label: n.Bathrooms.String() + " bathrooms"})
	}
	if !n.LeaseDuration.Any() {
		tags = append(tags, Tag{Key: "lease", Label: n.LeaseDuration.String() + " months"})
	}
	if n.AvailableNow {
		tags = append(tags, Tag{Key: "available", Label: "Available now"})
	}
	if n.Keyword != "" {
		tags = append(tags, Tag{Key: "keyword", Label: fmt.Sprintf("%q", n.Keyword)})
	}
	return tags
}

func (c ListingCriteria) ActiveCount() int {
	return len(c.ActiveTags())
}

// Clear returns a copy with the criterion behind a tag key reset to its wildcard.
// Unknown keys return an unchanged copy.
func (c ListingCriteria) Clear(key string) ListingCriteria {
	out := c
	out.RoomTypes = append([]string(nil), c.RoomTypes...)
	out.Facilities = append([]string(nil), c.Facilities...)

	switch {
	case key == "search":
		out.Search = ""
	case key == "price":
		out.PriceRange = nil
	case key == "distance":
		out.MaxDistance = nil
	case key == "bedrooms":
		out.Bedrooms = Count{}
	case key == "bathrooms":
		out.Bathrooms = Count{}
	case key == "lease":
		out.LeaseDuration = Count{}
	case key == "available":
		out.AvailableNow = false
	case key == "keyword":
		out.Keyword = ""
	case strings.HasPrefix(key, "roomType-"):
		out.RoomTypes = without(out.RoomTypes, strings.TrimPrefix(key, "roomType-"))
	case strings.HasPrefix(key, "facility-"):
		out.Facilities = without(out.Facilities, strings.TrimPrefix(key, "facility-"))
	}
	return out
}

// IsAny reports whether a single-choice criterion is the wildcard.
func IsAny(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "any")
}

func without(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if !strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
