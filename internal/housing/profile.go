package housing

import (
	"strings"
	"time"
)

// Budget is a monthly rent range a student is willing to pay.
type Budget struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
}

// Ordered returns the budget with its bounds swapped when Min exceeds Max.
func (b Budget) Ordered() Budget {
	if b.Min > b.Max {
		return Budget{Min: b.Max, Max: b.Min}
	}
	return b
}

// IsZero reports whether no budget was given.
func (b Budget) IsZero() bool {
	return b == Budget{}
}

// Width is the size of the range.
func (b Budget) Width() int {
	o := b.Ordered()
	return o.Max - o.Min
}

// Overlaps reports whether the two ranges share at least one value. Bounds are inclusive.
func (b Budget) Overlaps(o Budget) bool {
	x, y := b.Ordered(), o.Ordered()
	return x.Min <= y.Max && y.Min <= x.Max
}

// RoommateProfile describes a student looking for a roommate.
type RoommateProfile struct {
	ID                string   `json:"id" mapstructure:"id"`
	Name              string   `json:"name" mapstructure:"name"`
	Age               int      `json:"age" mapstructure:"age"`
	Gender            string   `json:"gender,omitempty" mapstructure:"gender"`
	Faculty           string   `json:"faculty,omitempty" mapstructure:"faculty"`
	Course            string   `json:"course,omitempty" mapstructure:"course"`
	Year              int      `json:"year,omitempty" mapstructure:"year"`
	Bio               string   `json:"bio,omitempty" mapstructure:"bio"`
	Budget            Budget   `json:"budget" mapstructure:"budget"`
	Cleanliness       string   `json:"cleanliness,omitempty" mapstructure:"cleanliness"`
	Lifestyle         []string `json:"lifestyle,omitempty" mapstructure:"lifestyle"`
	SmokingPreference string   `json:"smoking_preference,omitempty" mapstructure:"smoking_preference"`
	SleepSchedule     string   `json:"sleep_schedule,omitempty" mapstructure:"sleep_schedule"`
	// MatchPercentage is a curated compatibility score shipped with the profile.
	// Zero means no curated score is available.
	MatchPercentage int `json:"match_percentage,omitempty" mapstructure:"match_percentage"`
}

// Profiles is an ordered collection of roommate profiles.
type Profiles []RoommateProfile

func (ps Profiles) Len() int {
	return len(ps)
}

func (ps Profiles) FindByID(id string) *RoommateProfile {
	for i := range ps {
		if ps[i].ID == id {
			return &ps[i]
		}
	}
	return nil
}

// FindByName looks a profile up by its display name, ignoring case.
func (ps Profiles) FindByName(name string) *RoommateProfile {
	name = strings.TrimSpace(name)
	for i := range ps {
		if strings.EqualFold(ps[i].Name, name) {
			return &ps[i]
		}
	}
	return nil
}

// MatchResult is the outcome of evaluating one record against a set of criteria.
// Score is only set for roommate matching.
type MatchResult[T any] struct {
	Record T    `json:"record"`
	Passed bool `json:"passed"`
	Score  *int `json:"score,omitempty"`
}

// ScoreOr returns the score, or fallback when none was computed.
func (m MatchResult[T]) ScoreOr(fallback int) int {
	if m.Score == nil {
		return fallback
	}
	return *m.Score
}

// ChatTurn is one message of a conversation transcript.
type ChatTurn struct {
	ID        string    `json:"id"`
	SpeakerID string    `json:"speaker_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
