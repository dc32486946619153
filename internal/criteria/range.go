package criteria

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is an inclusive numeric interval. A nil *Range matches everything.
type Range struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// NewRange builds a range from a [min, max] pair. Anything other than two
// finite values yields nil, the wildcard.
func NewRange(bounds ...float64) *Range {
	if len(bounds) != 2 {
		return nil
	}
	r := Range{Min: bounds[0], Max: bounds[1]}
	if !r.valid() {
		return nil
	}
	o := r.ordered()
	return &o
}

func (r Range) valid() bool {
	return finite(r.Min) && finite(r.Max)
}

func (r Range) ordered() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Active reports whether the range constrains anything.
func (r *Range) Active() bool {
	return r != nil && r.valid()
}

// Contains reports whether v lies within the range, bounds included.
// Inactive ranges contain every value.
func (r *Range) Contains(v float64) bool {
	if !r.Active() {
		return true
	}
	o := r.ordered()
	return v >= o.Min && v <= o.Max
}

// Overlaps reports whether [lo, hi] shares at least one value with the range.
func (r *Range) Overlaps(lo, hi float64) bool {
	if !r.Active() {
		return true
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	o := r.ordered()
	return lo <= o.Max && o.Min <= hi
}

func (r *Range) Equal(o *Range) bool {
	if !r.Active() || !o.Active() {
		return r.Active() == o.Active()
	}
	a, b := r.ordered(), o.ordered()
	return a.Min == b.Min && a.Max == b.Max
}

func (r *Range) String() string {
	if !r.Active() {
		return "any"
	}
	o := r.ordered()
	return fmt.Sprintf("%s-%s", formatNumber(o.Min), formatNumber(o.Max))
}

// Count is a bedroom, bathroom, year or lease selector: "any", an exact
// value, or "n+" for at least n. The zero value is "any".
type Count struct {
	N       int
	AtLeast bool
}

// Exactly returns a selector for exactly n.
func Exactly(n int) Count {
	if n <= 0 {
		return Count{}
	}
	return Count{N: n}
}

// AtLeast returns a selector for n or more.
func AtLeast(n int) Count {
	if n <= 0 {
		return Count{}
	}
	return Count{N: n, AtLeast: true}
}

// ParseCount reads "any", "", "2" or "3+". Unparsable input is treated as "any".
func ParseCount(s string) Count {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "any" {
		return Count{}
	}
	atLeast := strings.HasSuffix(s, "+")
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "+")))
	if err != nil || n <= 0 {
		return Count{}
	}
	return Count{N: n, AtLeast: atLeast}
}

func (c Count) Any() bool {
	return c.N <= 0
}

// Matches reports whether n satisfies the selector.
func (c Count) Matches(n int) bool {
	switch {
	case c.Any():
		return true
	case c.AtLeast:
		return n >= c.N
	default:
		return n == c.N
	}
}

func (c Count) String() string {
	switch {
	case c.Any():
		return "any"
	case c.AtLeast:
		return strconv.Itoa(c.N) + "+"
	default:
		return strconv.Itoa(c.N)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
