package pricing

import (
	"strings"

	"github.com/spigell/roomeo/internal/housing"
)

// Attributes are the listing properties that influence rent.
type Attributes struct {
	RoomType   string   `json:"room_type" mapstructure:"room_type"`
	Location   string   `json:"location" mapstructure:"location"`
	Distance   float64  `json:"distance" mapstructure:"distance"`
	Facilities []string `json:"facilities,omitempty" mapstructure:"facilities"`
	Bedrooms   int      `json:"bedrooms,omitempty" mapstructure:"bedrooms"`
	Bathrooms  int      `json:"bathrooms,omitempty" mapstructure:"bathrooms"`
}

// AttributesOf extracts the priced attributes of a listing.
func AttributesOf(l housing.Listing) Attributes {
	return Attributes{
		RoomType:   l.RoomType,
		Location:   l.Location,
		Distance:   l.Distance,
		Facilities: l.Facilities,
		Bedrooms:   l.Bedrooms,
		Bathrooms:  l.Bathrooms,
	}
}

// RuleEntry is a labelled adjustment applied when Predicate holds.
type RuleEntry struct {
	Label     string
	Predicate func(Attributes) bool
	Effect    int
}

// Table holds the pricing rules. Room types and location rules are
// first-match; facility rules are cumulative.
type Table struct {
	RoomTypes       []RuleEntry
	DefaultRoomType RuleEntry
	DistanceTiers   []RuleEntry
	Locations       []RuleEntry
	Facilities      []RuleEntry
	PerBedroom      int
	PerBathroom     int
	// Spread is the relative half-width of the suggested range.
	Spread float64
	// Step is the rounding granularity of every emitted amount.
	Step int
}

// DefaultTable returns the rent rules for rooms around the UM campus.
func DefaultTable() Table {
	return Table{
		RoomTypes: []RuleEntry{
			{Label: "Master Room", Predicate: roomTypeIs("master"), Effect: 550},
			{Label: "Studio", Predicate: roomTypeIs("studio"), Effect: 500},
			{Label: "Shared Room", Predicate: roomTypeIs("shared"), Effect: 280},
		},
		DefaultRoomType: RuleEntry{Label: "Single Room", Effect: 350},
		DistanceTiers: []RuleEntry{
			{Label: "Very close to UM", Predicate: distanceBelow(1), Effect: 150},
			{Label: "Close to UM", Predicate: distanceBelow(2), Effect: 100},
			{Label: "Near UM", Predicate: distanceBelow(3), Effect: 50},
			{Label: "Far from UM", Predicate: distanceAbove(4), Effect: -50},
		},
		Locations: []RuleEntry{
			{Label: "Premium area: Bangsar", Predicate: locationHas("bangsar"), Effect: 120},
			{Label: "Popular area: Pantai Dalam", Predicate: locationHas("pantai dalam"), Effect: 50},
		},
		Facilities: []RuleEntry{
			{Label: "Aircon", Predicate: hasFacility("Aircon"), Effect: 80},
			{Label: "Parking", Predicate: hasFacility("Parking"), Effect: 60},
			{Label: "Wi-Fi", Predicate: hasFacility("Wi-Fi"), Effect: 30},
			{Label: "Fully Furnished", Predicate: hasFacility("Furniture"), Effect: 70},
			{Label: "Washing Machine", Predicate: hasFacility("Washing Machine"), Effect: 40},
			{Label: "Study Desk", Predicate: hasFacility("Study Desk"), Effect: 20},
		},
		PerBedroom:  100,
		PerBathroom: 50,
		Spread:      0.15,
		Step:        10,
	}
}

func roomTypeIs(word string) func(Attributes) bool {
	return func(a Attributes) bool {
		return strings.Contains(strings.ToLower(a.RoomType), word)
	}
}

// Non-finite distances satisfy neither comparison.
func distanceBelow(km float64) func(Attributes) bool {
	return func(a Attributes) bool { return a.Distance < km }
}

func distanceAbove(km float64) func(Attributes) bool {
	return func(a Attributes) bool { return a.Distance > km }
}

func locationHas(area string) func(Attributes) bool {
	return func(a Attributes) bool {
		return strings.Contains(strings.ToLower(a.Location), area)
	}
}

func hasFacility(name string) func(Attributes) bool {
	return func(a Attributes) bool {
		return housing.ContainsFold(a.Facilities, name)
	}
}
