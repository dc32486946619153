package filtering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/roomeo/internal/ai"
	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/store"
)

func rooms() []housing.Listing {
	return []housing.Listing{
		{ID: "1", Title: "Cozy Studio Near UM", Price: 450, Location: "Pantai Dalam", Distance: 1.2, RoomType: "Studio", Available: true},
		{ID: "2", Title: "Spacious Master Room", Price: 600, Location: "Bangsar South", Distance: 2.5, RoomType: "Master"},
		{ID: "3", Title: "Budget-Friendly Single Room", Price: 350, Location: "Pantai Dalam", Distance: 1.5, RoomType: "Single", Available: true},
		{ID: "4", Title: "Modern Shared Room", Price: 280, Location: "Kerinchi", Distance: 2.0, RoomType: "Shared", Available: true},
		{ID: "5", Title: "Luxury Studio with Pool", Price: 750, Location: "Bangsar", Distance: 3.0, RoomType: "Studio"},
		{ID: "6", Title: "Clean Single Room", Price: 400, Location: "Pantai Dalam", Distance: 0.8, RoomType: "Single", Available: true},
	}
}

func budgetCriteria() criteria.ListingCriteria {
	d := 2.0
	return criteria.ListingCriteria{PriceRange: criteria.NewRange(0, 500), MaxDistance: &d}
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRunCriteria(t *testing.T) {
	logger, logs := observed()
	input := rooms()

	step := NewListingCriteria(logger, budgetCriteria())
	out, err := Run(context.Background(), logger, []Filter[housing.Listing]{step}, input)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3", "4", "6"}, housing.Listings(out).IDs())
	assert.Len(t, input, 6)

	entries := logs.FilterMessage("filter step").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "criteria", fields["name"])
	assert.EqualValues(t, 6, fields["initial"])
	assert.EqualValues(t, 2, fields["dropped"])
	assert.EqualValues(t, 4, fields["left"])

	cf, ok := step.(*criteriaFilter[housing.Listing, criteria.ListingCriteria])
	require.True(t, ok)
	assert.Equal(t, map[string]int{"price": 2, "distance": 2}, cf.DroppedBy())
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	logger, logs := observed()

	steps := []Filter[housing.Listing]{NewListingCriteria(logger, budgetCriteria())}
	DisableByName(steps, "criteria", "testing")

	out, err := Run(context.Background(), logger, steps, rooms())
	require.NoError(t, err)
	assert.Len(t, out, 6)
	assert.Equal(t, 1, logs.FilterMessage("filter disabled").Len())
	assert.Zero(t, logs.FilterMessage("filter step").Len())

	statuses := Describe(steps)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "testing", statuses[0].Reason)
	assert.Equal(t, "2", statuses[0].Details["active"])
	assert.Equal(t, "price,distance", statuses[0].Details["tags"])
}

func TestRunEmptyInput(t *testing.T) {
	out, err := Run[housing.Listing](context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSavedOnly(t *testing.T) {
	saved := store.NewMemory()
	require.NoError(t, saved.Add(store.KindRooms, "6"))
	require.NoError(t, saved.Add(store.KindRooms, "2"))
	require.NoError(t, saved.Add(store.KindRoommates, "1"))

	logger, _ := observed()
	steps := []Filter[housing.Listing]{
		NewListingCriteria(logger, budgetCriteria()),
		NewSavedListings(logger, saved, true),
	}

	out, err := Run(context.Background(), logger, steps, rooms())
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, housing.Listings(out).IDs())

	disabled := NewSavedListings(logger, saved, false)
	assert.False(t, disabled.IsEnabled())
}

func TestSavedOnlyRequiresStore(t *testing.T) {
	steps := []Filter[housing.Listing]{NewSavedListings(nil, nil, true)}
	_, err := Run(context.Background(), nil, steps, rooms())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saved_only")
}

type stubMatcher struct {
	results map[string]*ai.FitAssessment
	errs    map[string]error
	seen    []string
}

func (s *stubMatcher) Evaluate(_ context.Context, _ *housing.RoommateProfile, candidate *housing.RoommateProfile) (*ai.FitAssessment, error) {
	s.seen = append(s.seen, candidate.ID)
	if err := s.errs[candidate.ID]; err != nil {
		return nil, err
	}
	return s.results[candidate.ID], nil
}

func aiConfig() *AIFitConfig {
	return &AIFitConfig{Enabled: true, Provider: "gemini", Gemini: &AIGeminiConfig{Model: "gemini-2.5-flash"}}
}

func TestAIFit(t *testing.T) {
	logger, logs := observed()
	matcher := &stubMatcher{
		results: map[string]*ai.FitAssessment{
			"a": {Fit: true, Score: 0.9},
			"b": {Fit: false, Score: 0.2, Reason: "smokes"},
		},
		errs: map[string]error{"c": errors.New("quota exceeded")},
	}
	viewer := &housing.RoommateProfile{ID: "me"}
	fit := NewAIFit(aiConfig(), &AIFitDeps{Logger: logger, Matcher: matcher, Viewer: viewer})

	candidates := []housing.RoommateProfile{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	steps := []Filter[housing.RoommateProfile]{fit}
	out, err := Run(context.Background(), logger, steps, candidates)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, []string{"a", "c"}, []string{out[0].ID, out[1].ID})
	assert.Equal(t, []string{"a", "b", "c"}, matcher.seen)

	failed, ok := fit.Assessment("c")
	require.True(t, ok)
	assert.Equal(t, "quota exceeded", failed.Error)

	all := CollectAssessments(steps)
	assert.Len(t, all, 3)
	assert.Equal(t, "smokes", all["b"].Reason)

	assert.Equal(t, 1, logs.FilterMessage("candidate rejected by AI provider").Len())
	assert.Equal(t, 1, logs.FilterMessage("AI evaluation failed").Len())
}

func TestAIFitDisabledByDefault(t *testing.T) {
	fit := NewAIFit(nil, nil)
	assert.False(t, fit.IsEnabled())
	assert.Equal(t, AIFitName, fit.Name())

	out, err := Run(context.Background(), nil, []Filter[housing.RoommateProfile]{fit}, []housing.RoommateProfile{{ID: "a"}})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestAIFitValidate(t *testing.T) {
	matcher := &stubMatcher{}
	viewer := &housing.RoommateProfile{ID: "me"}

	tests := []struct {
		name string
		cfg  *AIFitConfig
		deps *AIFitDeps
		want string
	}{
		{name: "missing matcher", cfg: aiConfig(), deps: &AIFitDeps{Viewer: viewer}, want: "matcher is not initialized"},
		{name: "missing viewer", cfg: aiConfig(), deps: &AIFitDeps{Matcher: matcher}, want: "viewer profile is required"},
		{name: "unknown provider", cfg: &AIFitConfig{Enabled: true, Provider: "other", Gemini: &AIGeminiConfig{Model: "m"}}, deps: &AIFitDeps{Matcher: matcher, Viewer: viewer}, want: "unsupported ai provider"},
		{name: "missing model", cfg: &AIFitConfig{Enabled: true, Gemini: &AIGeminiConfig{}}, deps: &AIFitDeps{Matcher: matcher, Viewer: viewer}, want: "gemini model is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAIFit(tt.cfg, tt.deps).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, NewAIFit(aiConfig(), &AIFitDeps{Matcher: matcher, Viewer: viewer}).Validate())
}
