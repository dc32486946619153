// Package compat scores how well two roommate profiles fit together.
package compat

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/roomeo/internal/housing"
)

// Component names, in scoring order.
const (
	ComponentLifestyle   = "lifestyle"
	ComponentCleanliness = "cleanliness"
	ComponentBudget      = "budget"
	ComponentSleep       = "sleep_schedule"
	ComponentSmoking     = "smoking"
)

// Weights sets the relative importance of each component. They are
// normalised by their sum, so only the ratios matter.
type Weights struct {
	Lifestyle   float64 `mapstructure:"lifestyle"`
	Cleanliness float64 `mapstructure:"cleanliness"`
	Budget      float64 `mapstructure:"budget"`
	Sleep       float64 `mapstructure:"sleep"`
	Smoking     float64 `mapstructure:"smoking"`
}

// DefaultWeights gives every component an equal share of 20 points.
func DefaultWeights() Weights {
	return Weights{Lifestyle: 20, Cleanliness: 20, Budget: 20, Sleep: 20, Smoking: 20}
}

// IsZero reports whether no weight was configured.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Component is one scored aspect of a pair of profiles.
type Component struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	// Credit is the agreement on this aspect, from 0 to 1.
	Credit float64 `json:"credit"`
	Reason string  `json:"reason"`
}

// Breakdown is a score together with the components that produced it.
type Breakdown struct {
	Score      int         `json:"score"`
	Components []Component `json:"components"`
}

// Reasons lists the explanations of the components that earned credit.
func (b Breakdown) Reasons() []string {
	var reasons []string
	for _, c := range b.Components {
		if c.Credit > 0 && c.Weight > 0 {
			reasons = append(reasons, c.Reason)
		}
	}
	return reasons
}

type Scorer struct {
	weights Weights
}

// NewScorer returns a scorer with the given weights. Negative or non-finite
// weights count as zero.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: Weights{
		Lifestyle:   sanitize(w.Lifestyle),
		Cleanliness: sanitize(w.Cleanliness),
		Budget:      sanitize(w.Budget),
		Sleep:       sanitize(w.Sleep),
		Smoking:     sanitize(w.Smoking),
	}}
}

// Default returns a scorer with DefaultWeights.
func Default() *Scorer {
	return NewScorer(DefaultWeights())
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the compatibility of candidate for viewer as a percentage.
func (s *Scorer) Score(viewer, candidate housing.RoommateProfile) int {
	return s.Breakdown(viewer, candidate).Score
}

// Breakdown scores every component and combines them into a percentage.
// The result is deterministic and always within [0, 100].
func (s *Scorer) Breakdown(viewer, candidate housing.RoommateProfile) Breakdown {
	components := []Component{
		lifestyle(viewer, candidate, s.weights.Lifestyle),
		cleanliness(viewer, candidate, s.weights.Cleanliness),
		budget(viewer, candidate, s.weights.Budget),
		sameChoice(ComponentSleep, "sleep schedule", viewer.SleepSchedule, candidate.SleepSchedule, s.weights.Sleep),
		sameChoice(ComponentSmoking, "smoking preference", viewer.SmokingPreference, candidate.SmokingPreference, s.weights.Smoking),
	}

	var total, earned float64
	for _, c := range components {
		total += c.Weight
		earned += c.Weight * c.Credit
	}
	if total <= 0 {
		return Breakdown{Score: 0, Components: components}
	}
	return Breakdown{Score: clamp(roundHalfUp(100*earned/total), 0, 100), Components: components}
}

func lifestyle(a, b housing.RoommateProfile, w float64) Component {
	left := tagSet(a.Lifestyle)
	right := tagSet(b.Lifestyle)

	var shared []string
	for _, tag := range housing.UniqueFold(a.Lifestyle) {
		if _, ok := right[strings.ToLower(tag)]; ok {
			shared = append(shared, tag)
		}
	}
	union := len(left) + len(right) - len(shared)

	c := Component{Name: ComponentLifestyle, Weight: w, Reason: "no shared lifestyle"}
	if union == 0 {
		return c
	}
	c.Credit = float64(len(shared)) / float64(union)
	if len(shared) > 0 {
		c.Reason = "shared lifestyle: " + strings.Join(shared, ", ")
	}
	return c
}

func cleanliness(a, b housing.RoommateProfile, w float64) Component {
	c := Component{Name: ComponentCleanliness, Weight: w, Reason: "cleanliness unknown"}
	x, okA := housing.ParseCleanliness(a.Cleanliness)
	y, okB := housing.ParseCleanliness(b.Cleanliness)
	if !okA || !okB {
		return c
	}

	switch x.Distance(y) {
	case 0:
		c.Credit = 1
		c.Reason = fmt.Sprintf("same cleanliness (%s)", y)
	case 1:
		c.Credit = 0.5
		c.Reason = fmt.Sprintf("similar cleanliness (%s vs %s)", x, y)
	default:
		c.Reason = fmt.Sprintf("different cleanliness (%s vs %s)", x, y)
	}
	return c
}

func budget(a, b housing.RoommateProfile, w float64) Component {
	c := Component{Name: ComponentBudget, Weight: w, Reason: "budget unknown"}
	if a.Budget.IsZero() || b.Budget.IsZero() {
		return c
	}

	c.Reason = "budgets do not overlap"
	x, y := a.Budget.Ordered(), b.Budget.Ordered()
	if !x.Overlaps(y) {
		return c
	}

	lo, hi := max(x.Min, y.Min), min(x.Max, y.Max)
	union := max(x.Max, y.Max) - min(x.Min, y.Min)
	switch {
	case union == 0:
		c.Credit = 1
		c.Reason = fmt.Sprintf("same budget (RM %d)", lo)
	case hi == lo:
		c.Reason = fmt.Sprintf("budgets only meet at RM %d", lo)
	default:
		c.Credit = float64(hi-lo) / float64(union)
		c.Reason = fmt.Sprintf("budgets overlap at RM %d-%d", lo, hi)
	}
	return c
}

func sameChoice(name, label, a, b string, w float64) Component {
	c := Component{Name: name, Weight: w, Reason: "different " + label}
	fa, fb := housing.Fold(a), housing.Fold(b)
	switch {
	case fa == "" || fb == "":
		c.Reason = label + " unknown"
	case fa == fb:
		c.Credit = 1
		c.Reason = fmt.Sprintf("same %s (%s)", label, strings.TrimSpace(b))
	}
	return c
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range housing.UniqueFold(tags) {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

func sanitize(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
