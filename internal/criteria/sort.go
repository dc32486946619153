package criteria

import "strings"

// SortBy selects the ordering applied to filtered results.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortPriceAsc  SortBy = "price-asc"
	SortPriceDesc SortBy = "price-desc"
	SortDistance  SortBy = "distance"
	SortMatch     SortBy = "match"
	SortAge       SortBy = "age"
	SortBudget    SortBy = "budget"
)

var sortAliases = map[string]SortBy{
	"":           SortRelevance,
	"relevance":  SortRelevance,
	"price-asc":  SortPriceAsc,
	"price-low":  SortPriceAsc,
	"price-desc": SortPriceDesc,
	"price-high": SortPriceDesc,
	"distance":   SortDistance,
	"match":      SortMatch,
	"age":        SortAge,
	"budget":     SortBudget,
}

// ParseSortBy maps a sort key, including the legacy price-low/price-high
// aliases, onto SortBy. Unknown keys fall back to relevance.
func ParseSortBy(s string) SortBy {
	if by, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return by
	}
	return SortRelevance
}

// SortKeys lists the canonical sort keys.
func SortKeys() []SortBy {
	return []SortBy{SortRelevance, SortPriceAsc, SortPriceDesc, SortDistance, SortMatch, SortAge, SortBudget}
}

func (s SortBy) String() string {
	return string(s)
}
