package predicate

import (
	"slices"
	"strings"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
)

type roommateField = Field[housing.RoommateProfile, criteria.RoommateCriteria]

var roommateSchema = Schema[housing.RoommateProfile, criteria.RoommateCriteria]{
	{
		Name:   "search",
		Active: func(c criteria.RoommateCriteria) bool { return strings.TrimSpace(c.Search) != "" },
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			return containsAnyFold(c.Search, p.Name, p.Faculty, p.Course)
		},
	},
	choiceField("gender", func(c criteria.RoommateCriteria) string { return c.Gender },
		func(p housing.RoommateProfile) string { return p.Gender }),
	choiceField("faculty", func(c criteria.RoommateCriteria) string { return c.Faculty },
		func(p housing.RoommateProfile) string { return p.Faculty }),
	{
		Name:   "year",
		Active: func(c criteria.RoommateCriteria) bool { return !c.Year.Any() },
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			return c.Year.Matches(p.Year)
		},
	},
	{
		Name: "cleanliness",
		Active: func(c criteria.RoommateCriteria) bool {
			// An unrecognised level cannot be compared and is ignored.
			_, ok := housing.ParseCleanliness(c.Cleanliness)
			return !criteria.IsAny(c.Cleanliness) && ok
		},
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			want, _ := housing.ParseCleanliness(c.Cleanliness)
			got, ok := housing.ParseCleanliness(p.Cleanliness)
			return ok && got == want
		},
	},
	choiceField("smoking", func(c criteria.RoommateCriteria) string { return c.SmokingPreference },
		func(p housing.RoommateProfile) string { return p.SmokingPreference }),
	choiceField("sleep_schedule", func(c criteria.RoommateCriteria) string { return c.SleepSchedule },
		func(p housing.RoommateProfile) string { return p.SleepSchedule }),
	{
		Name:   "budget",
		Active: func(c criteria.RoommateCriteria) bool { return c.BudgetRange.Active() },
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			return c.BudgetRange.Overlaps(float64(p.Budget.Min), float64(p.Budget.Max))
		},
	},
	{
		Name:   "lifestyle",
		Active: func(c criteria.RoommateCriteria) bool { return hasNonBlank(c.Lifestyle) },
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			for _, tag := range c.Lifestyle {
				if strings.TrimSpace(tag) == "" {
					continue
				}
				if !housing.ContainsFold(p.Lifestyle, tag) {
					return false
				}
			}
			return true
		},
	},
}

// choiceField builds an "any or exact match" predicate. Values are compared
// after folding case and separators, so "Early Bird" equals "early-bird".
func choiceField(
	name string,
	want func(criteria.RoommateCriteria) string,
	got func(housing.RoommateProfile) string,
) roommateField {
	return roommateField{
		Name:   name,
		Active: func(c criteria.RoommateCriteria) bool { return !criteria.IsAny(want(c)) },
		Test: func(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
			return housing.Fold(got(p)) == housing.Fold(want(c))
		},
	}
}

// RoommateSchema returns a copy of the roommate field schema.
func RoommateSchema() Schema[housing.RoommateProfile, criteria.RoommateCriteria] {
	return slices.Clone(roommateSchema)
}

func EvaluateRoommate(p housing.RoommateProfile, c criteria.RoommateCriteria) Evaluation {
	return roommateSchema.Evaluate(p, c)
}

func RoommatePasses(p housing.RoommateProfile, c criteria.RoommateCriteria) bool {
	return roommateSchema.Passes(p, c)
}

// FilterRoommates keeps the profiles matching c in their original order.
func FilterRoommates(ps []housing.RoommateProfile, c criteria.RoommateCriteria) []housing.RoommateProfile {
	return roommateSchema.Filter(ps, c)
}
