package housing

import "strings"

// Listing is a room offered for rent.
type Listing struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Price       int      `json:"price" mapstructure:"price"`
	Location    string   `json:"location" mapstructure:"location"`
	Distance    float64  `json:"distance" mapstructure:"distance"`
	RoomType    string   `json:"room_type" mapstructure:"room_type"`
	Facilities  []string `json:"facilities,omitempty" mapstructure:"facilities"`
	Bedrooms    int      `json:"bedrooms,omitempty" mapstructure:"bedrooms"`
	Bathrooms   int      `json:"bathrooms,omitempty" mapstructure:"bathrooms"`
	LeaseMonths int      `json:"lease_months,omitempty" mapstructure:"lease_months"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
	Available   bool     `json:"available" mapstructure:"available"`
	Landlord    string   `json:"landlord,omitempty" mapstructure:"landlord"`
}

// BedroomCount returns the number of bedrooms, treating a missing value as one.
func (l Listing) BedroomCount() int {
	if l.Bedrooms < 1 {
		return 1
	}
	return l.Bedrooms
}

// BathroomCount returns the number of bathrooms, treating a missing value as one.
func (l Listing) BathroomCount() int {
	if l.Bathrooms < 1 {
		return 1
	}
	return l.Bathrooms
}

// HasFacility reports whether the listing offers the named facility.
// Names are compared case-insensitively.
func (l Listing) HasFacility(name string) bool {
	return ContainsFold(l.Facilities, name)
}

// Listings is an ordered collection of listings.
type Listings []Listing

func (ls Listings) Len() int {
	return len(ls)
}

func (ls Listings) FindByID(id string) *Listing {
	for i := range ls {
		if ls[i].ID == id {
			return &ls[i]
		}
	}
	return nil
}

func (ls Listings) IDs() []string {
	ids := make([]string, 0, len(ls))
	for _, l := range ls {
		ids = append(ids, l.ID)
	}
	return ids
}

// ContainsFold reports whether values holds target, ignoring case and surrounding spaces.
func ContainsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

// UniqueFold returns the trimmed, non-empty values with case-insensitive duplicates removed.
// The first spelling of each value wins and the input order is kept.
func UniqueFold(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
