package criteria

import (
	"fmt"
	"strings"

	"github.com/spigell/roomeo/internal/housing"
)

// RoommateCriteria is the set of roommate filters a student selected.
// Single-choice fields accept "any" or an empty string as the wildcard.
type RoommateCriteria struct {
	Search            string
	Gender            string
	Faculty           string
	Year              Count
	Cleanliness       string
	SmokingPreference string
	SleepSchedule     string
	BudgetRange       *Range
	Lifestyle         []string
	SortBy            SortBy
}

// Normalize returns a copy with wildcard spellings collapsed to "", the budget
// range reordered or dropped when malformed, and tags de-duplicated.
func (c RoommateCriteria) Normalize() RoommateCriteria {
	out := c
	out.Search = strings.TrimSpace(c.Search)
	out.Gender = choice(c.Gender)
	out.Faculty = choice(c.Faculty)
	out.Cleanliness = choice(c.Cleanliness)
	out.SmokingPreference = choice(c.SmokingPreference)
	out.SleepSchedule = choice(c.SleepSchedule)
	out.BudgetRange = nil
	if c.BudgetRange.Active() {
		r := c.BudgetRange.ordered()
		out.BudgetRange = &r
	}
	out.Lifestyle = housing.UniqueFold(c.Lifestyle)
	out.SortBy = ParseSortBy(string(c.SortBy))
	return out
}

func (c RoommateCriteria) ActiveTags() []Tag {
	n := c.Normalize()
	var tags []Tag
	if n.Search != "" {
		tags = append(tags, Tag{Key: "search", Label: fmt.Sprintf("%q", n.Search)})
	}
	for _, f := range []struct{ key, value string }{
		{"gender", n.Gender},
		{"faculty", n.Faculty},
		{"cleanliness", n.Cleanliness},
		{"smoking", n.SmokingPreference},
		{"sleep", n.SleepSchedule},
	} {
		if f.value != "" {
			tags = append(tags, Tag{Key: f.key, Label: f.value})
		}
	}
	if !n.Year.Any() {
		tags = append(tags, Tag{Key: "year", Label: "Year " + n.Year.String()})
	}
	if n.BudgetRange.Active() {
		tags = append(tags, Tag{Key: "budget", Label: "RM " + n.BudgetRange.String()})
	}
	for _, l := range n.Lifestyle {
		tags = append(tags, Tag{Key: "lifestyle-" + l, Label: l})
	}
	return tags
}

func (c RoommateCriteria) ActiveCount() int {
	return len(c.ActiveTags())
}

func (c RoommateCriteria) Clear(key string) RoommateCriteria {
	out := c
	out.Lifestyle = append([]string(nil), c.Lifestyle...)

	switch {
	case key == "search":
		out.Search = ""
	case key == "gender":
		out.Gender = ""
	case key == "faculty":
		out.Faculty = ""
	case key == "year":
		out.Year = Count{}
	case key == "cleanliness":
		out.Cleanliness = ""
	case key == "smoking":
		out.SmokingPreference = ""
	case key == "sleep":
		out.SleepSchedule = ""
	case key == "budget":
		out.BudgetRange = nil
	case strings.HasPrefix(key, "lifestyle-"):
		out.Lifestyle = without(out.Lifestyle, strings.TrimPrefix(key, "lifestyle-"))
	}
	return out
}

func choice(s string) string {
	if IsAny(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
