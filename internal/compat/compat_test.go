package compat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
)

var (
	alex = housing.RoommateProfile{
		ID: "1", Name: "Alex Chen", Age: 21, Gender: "Male",
		Budget: housing.Budget{Min: 400, Max: 600}, Cleanliness: "Very Neat",
		Lifestyle:         []string{"Quiet", "Non-Smoker", "Early Bird"},
		SmokingPreference: "Non-smoker", SleepSchedule: "Early Bird", MatchPercentage: 95,
	}
	emily = housing.RoommateProfile{
		ID: "2", Name: "Emily Wong", Age: 22, Gender: "Female",
		Budget: housing.Budget{Min: 500, Max: 700}, Cleanliness: "Neat",
		Lifestyle:         []string{"Social", "Foodie", "Non-Smoker"},
		SmokingPreference: "Non-smoker", SleepSchedule: "Moderate", MatchPercentage: 90,
	}
	daniel = housing.RoommateProfile{
		ID: "3", Name: "Daniel Lim", Age: 23, Gender: "Male",
		Budget: housing.Budget{Min: 450, Max: 650}, Cleanliness: "Average",
		Lifestyle:         []string{"Fitness Enthusiast", "Social", "Night Owl"},
		SmokingPreference: "Non-smoker", SleepSchedule: "Night Owl",
	}
	nurul = housing.RoommateProfile{
		ID: "4", Name: "Nurul Aisyah", Age: 19, Gender: "Female",
		Budget: housing.Budget{Min: 300, Max: 500}, Cleanliness: "very-neat",
		Lifestyle:         []string{"quiet", "Non-Smoker", "Early Bird"},
		SmokingPreference: "non-smoker", SleepSchedule: "early-bird",
	}
)

func TestScore(t *testing.T) {
	s := Default()

	tests := []struct {
		name      string
		viewer    housing.RoommateProfile
		candidate housing.RoommateProfile
		want      int
	}{
		{name: "self", viewer: alex, candidate: alex, want: 100},
		// 20 + 20 + 20*(100/300) + 20 + 20
		{name: "same habits, partial budget", viewer: alex, candidate: nurul, want: 87},
		// 0 + 0 + 20*(150/250) + 0 + 20
		{name: "different habits", viewer: alex, candidate: daniel, want: 32},
		// 20*(1/5) + 10 + 20*(100/300) + 0 + 20
		{name: "adjacent cleanliness", viewer: alex, candidate: emily, want: 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.viewer, tt.candidate))
		})
	}
}

func TestScoreIsBoundedAndDeterministic(t *testing.T) {
	s := Default()
	profiles := []housing.RoommateProfile{alex, emily, daniel, nurul, {}}

	for _, a := range profiles {
		for _, b := range profiles {
			got := s.Score(a, b)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
			assert.Equal(t, got, s.Score(a, b))
		}
	}
}

func TestEmptyLifestyleContributesNothing(t *testing.T) {
	a := housing.RoommateProfile{Budget: housing.Budget{Min: 400, Max: 600}, Cleanliness: "Neat", SleepSchedule: "Moderate", SmokingPreference: "Non-smoker"}

	b := Default().Breakdown(a, a)

	assert.Equal(t, 80, b.Score)
	assert.Equal(t, ComponentLifestyle, b.Components[0].Name)
	assert.Zero(t, b.Components[0].Credit)
}

func TestNonOverlappingBudgetsContributeNothing(t *testing.T) {
	a := housing.RoommateProfile{Budget: housing.Budget{Min: 300, Max: 400}}
	b := housing.RoommateProfile{Budget: housing.Budget{Min: 500, Max: 700}}

	s := NewScorer(Weights{Budget: 1})

	assert.Equal(t, 0, s.Score(a, b))
	assert.Equal(t, 100, s.Score(a, a))
}

func TestIdenticalDegenerateBudgetsOverlapFully(t *testing.T) {
	a := housing.RoommateProfile{Budget: housing.Budget{Min: 500, Max: 500}}

	assert.Equal(t, 100, NewScorer(Weights{Budget: 5}).Score(a, a))
}

func TestBudgetComponent(t *testing.T) {
	tests := []struct {
		name   string
		a, b   housing.Budget
		credit float64
		reason string
	}{
		{name: "partial overlap", a: housing.Budget{Min: 400, Max: 600}, b: housing.Budget{Min: 300, Max: 500}, credit: 100.0 / 300, reason: "budgets overlap at RM 400-500"},
		{name: "ranges touch", a: housing.Budget{Min: 400, Max: 600}, b: housing.Budget{Min: 600, Max: 800}, reason: "budgets only meet at RM 600"},
		{name: "single value inside range", a: housing.Budget{Min: 500, Max: 500}, b: housing.Budget{Min: 400, Max: 600}, reason: "budgets only meet at RM 500"},
		{name: "same single value", a: housing.Budget{Min: 500, Max: 500}, b: housing.Budget{Min: 500, Max: 500}, credit: 1, reason: "same budget (RM 500)"},
		{name: "apart", a: housing.Budget{Min: 300, Max: 400}, b: housing.Budget{Min: 500, Max: 700}, reason: "budgets do not overlap"},
		{name: "viewer without budget", b: housing.Budget{Min: 400, Max: 600}, reason: "budget unknown"},
		{name: "neither has a budget", reason: "budget unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := budget(housing.RoommateProfile{Budget: tt.a}, housing.RoommateProfile{Budget: tt.b}, 20)
			assert.InDelta(t, tt.credit, c.Credit, 1e-9)
			assert.Equal(t, tt.reason, c.Reason)
		})
	}
}

func TestMissingBudgetsEarnNothing(t *testing.T) {
	a := housing.RoommateProfile{SleepSchedule: "Night Owl"}

	b := Default().Breakdown(a, a)

	// Only the sleep schedule (20 of 100) is shared.
	assert.Equal(t, 20, b.Score)
	require.Equal(t, ComponentBudget, b.Components[2].Name)
	assert.Zero(t, b.Components[2].Credit)
	assert.Equal(t, "budget unknown", b.Components[2].Reason)
}

func TestWeights(t *testing.T) {
	assert.Equal(t, 0, NewScorer(Weights{}).Score(alex, alex), "no weights")
	assert.Equal(t, 0, NewScorer(Weights{Lifestyle: -5, Budget: math.NaN()}).Score(alex, alex))
	assert.Equal(t, 100, NewScorer(Weights{Smoking: 3}).Score(alex, daniel))
	assert.Equal(t, 100, NewScorer(Weights{Lifestyle: 1, Cleanliness: 2, Budget: 3, Sleep: 4, Smoking: 5}).Score(nurul, nurul))
	assert.True(t, Weights{}.IsZero())
	assert.False(t, DefaultWeights().IsZero())
}

func TestBreakdownReasons(t *testing.T) {
	b := Default().Breakdown(alex, nurul)

	require.Len(t, b.Components, 5)
	assert.Equal(t, []string{
		"shared lifestyle: Quiet, Non-Smoker, Early Bird",
		"same cleanliness (Very Neat)",
		"budgets overlap at RM 400-500",
		"same sleep schedule (early-bird)",
		"same smoking preference (non-smoker)",
	}, b.Reasons())
}

func TestMatch(t *testing.T) {
	s := Default()
	candidates := []housing.RoommateProfile{alex, emily, daniel, nurul}

	got := s.Match(&alex, candidates, criteria.RoommateCriteria{SortBy: criteria.SortMatch})

	require.Len(t, got, 3, "viewer is skipped")
	assert.Equal(t, "4", got[0].Record.ID)
	assert.Equal(t, 87, *got[0].Score)
	assert.Equal(t, "2", got[1].Record.ID)
	assert.Equal(t, "3", got[2].Record.ID)
}

func TestMatchAppliesCriteria(t *testing.T) {
	got := Default().Match(&alex, []housing.RoommateProfile{emily, daniel, nurul}, criteria.RoommateCriteria{Gender: "female"})

	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].Record.ID, "relevance keeps input order")
	assert.Equal(t, "4", got[1].Record.ID)
}

func TestAssessWithoutViewerUsesCuratedScore(t *testing.T) {
	got := Default().Assess(nil, []housing.RoommateProfile{alex, daniel}, criteria.RoommateCriteria{Gender: "Male", Year: criteria.AtLeast(2)})

	require.Len(t, got, 2)
	require.NotNil(t, got[0].Score)
	assert.Equal(t, 95, *got[0].Score)
	assert.False(t, got[0].Passed, "year is unknown")
	assert.Nil(t, got[1].Score)
}
