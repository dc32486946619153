// Package pricing suggests a monthly rent for a listing from a table of
// additive rules.
package pricing

import (
	"fmt"
	"math"
)

// Factor is one contribution to a suggested price.
type Factor struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
	// Base marks the room type starting price.
	Base bool `json:"base,omitempty"`
}

func (f Factor) String() string {
	switch {
	case f.Base:
		return fmt.Sprintf("%s (base RM %d)", f.Label, f.Amount)
	case f.Amount < 0:
		return fmt.Sprintf("%s (-RM %d)", f.Label, -f.Amount)
	default:
		return fmt.Sprintf("%s (+RM %d)", f.Label, f.Amount)
	}
}

// Suggestion is a suggested rent with a plausible range around it.
type Suggestion struct {
	Suggested int      `json:"suggested"`
	RangeMin  int      `json:"range_min"`
	RangeMax  int      `json:"range_max"`
	Factors   []Factor `json:"factors"`
}

// FactorLabels renders every factor in evaluation order.
func (s Suggestion) FactorLabels() []string {
	out := make([]string, 0, len(s.Factors))
	for _, f := range s.Factors {
		out = append(out, f.String())
	}
	return out
}

type Heuristic struct {
	table Table
}

// New returns a heuristic over t. Zero Step and Spread fall back to the defaults.
func New(t Table) *Heuristic {
	def := DefaultTable()
	if t.Step <= 0 {
		t.Step = def.Step
	}
	if t.Spread <= 0 || math.IsNaN(t.Spread) || math.IsInf(t.Spread, 0) {
		t.Spread = def.Spread
	}
	return &Heuristic{table: t}
}

// Default returns a heuristic over DefaultTable.
func Default() *Heuristic {
	return New(DefaultTable())
}

// Suggest prices a listing using the default table.
func Suggest(a Attributes) Suggestion {
	return Default().Suggest(a)
}

// Suggest adds up the room type base, the first matching distance tier and
// location, every present facility and the extra rooms, then rounds.
func (h *Heuristic) Suggest(a Attributes) Suggestion {
	t := h.table
	factors := make([]Factor, 0, 8)

	base := t.DefaultRoomType
	if rule, ok := first(t.RoomTypes, a); ok {
		base = rule
	}
	factors = append(factors, Factor{Label: base.Label, Amount: base.Effect, Base: true})

	if rule, ok := first(t.DistanceTiers, a); ok {
		factors = append(factors, Factor{Label: rule.Label, Amount: rule.Effect})
	}
	if rule, ok := first(t.Locations, a); ok {
		factors = append(factors, Factor{Label: rule.Label, Amount: rule.Effect})
	}
	for _, rule := range t.Facilities {
		if rule.Predicate != nil && rule.Predicate(a) {
			factors = append(factors, Factor{Label: rule.Label, Amount: rule.Effect})
		}
	}
	if a.Bedrooms > 1 && t.PerBedroom != 0 {
		factors = append(factors, Factor{Label: fmt.Sprintf("%d Bedrooms", a.Bedrooms), Amount: (a.Bedrooms - 1) * t.PerBedroom})
	}
	if a.Bathrooms > 1 && t.PerBathroom != 0 {
		factors = append(factors, Factor{Label: fmt.Sprintf("%d Bathrooms", a.Bathrooms), Amount: (a.Bathrooms - 1) * t.PerBathroom})
	}

	total := 0
	for _, f := range factors {
		total += f.Amount
	}

	suggested := roundTo(float64(total), t.Step)
	return Suggestion{
		Suggested: suggested,
		RangeMin:  roundTo(float64(suggested)*(1-t.Spread), t.Step),
		RangeMax:  roundTo(float64(suggested)*(1+t.Spread), t.Step),
		Factors:   factors,
	}
}

func first(rules []RuleEntry, a Attributes) (RuleEntry, bool) {
	for _, r := range rules {
		if r.Predicate != nil && r.Predicate(a) {
			return r, true
		}
	}
	return RuleEntry{}, false
}

// roundTo rounds x to the nearest multiple of step. Halves round up.
func roundTo(x float64, step int) int {
	s := float64(step)
	return int(math.Floor(x/s+0.5) * s)
}
