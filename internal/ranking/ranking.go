// Package ranking orders filtered results. Every sort is stable, so records
// with equal keys keep the order they were given in.
package ranking

import (
	"cmp"
	"slices"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
)

// RoommateMatch is a scored roommate candidate.
type RoommateMatch = housing.MatchResult[housing.RoommateProfile]

var listingOrder = map[criteria.SortBy]func(a, b housing.Listing) int{
	criteria.SortPriceAsc:  func(a, b housing.Listing) int { return cmp.Compare(a.Price, b.Price) },
	criteria.SortPriceDesc: func(a, b housing.Listing) int { return cmp.Compare(b.Price, a.Price) },
	criteria.SortDistance:  func(a, b housing.Listing) int { return cmp.Compare(a.Distance, b.Distance) },
}

var roommateOrder = map[criteria.SortBy]func(a, b RoommateMatch) int{
	// Unscored matches go last.
	criteria.SortMatch: func(a, b RoommateMatch) int { return cmp.Compare(b.ScoreOr(-1), a.ScoreOr(-1)) },
	criteria.SortAge:   func(a, b RoommateMatch) int { return cmp.Compare(a.Record.Age, b.Record.Age) },
	criteria.SortBudget: func(a, b RoommateMatch) int {
		return cmp.Compare(a.Record.Budget.Ordered().Min, b.Record.Budget.Ordered().Min)
	},
}

// Stable returns a sorted copy of in. A nil comparator returns the copy as is.
func Stable[T any](in []T, compare func(a, b T) int) []T {
	out := make([]T, len(in))
	copy(out, in)
	if compare != nil {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Listings orders listings by price or distance. Relevance and keys that do
// not apply to listings keep the input order.
func Listings(in []housing.Listing, by criteria.SortBy) []housing.Listing {
	return Stable(in, listingOrder[criteria.ParseSortBy(string(by))])
}

// Roommates orders scored candidates by match score, age or budget.
func Roommates(in []RoommateMatch, by criteria.SortBy) []RoommateMatch {
	return Stable(in, roommateOrder[criteria.ParseSortBy(string(by))])
}

// Profiles orders bare profiles, treating the curated match percentage as the score.
func Profiles(in []housing.RoommateProfile, by criteria.SortBy) []housing.RoommateProfile {
	matches := make([]RoommateMatch, 0, len(in))
	for _, p := range in {
		m := RoommateMatch{Record: p, Passed: true}
		if p.MatchPercentage > 0 {
			score := p.MatchPercentage
			m.Score = &score
		}
		matches = append(matches, m)
	}

	ranked := Roommates(matches, by)
	out := make([]housing.RoommateProfile, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, m.Record)
	}
	return out
}
