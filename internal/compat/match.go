package compat

import (
	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/predicate"
	"github.com/spigell/roomeo/internal/ranking"
)

// Assess evaluates every candidate against c and scores it for viewer.
// With a nil viewer the candidate's curated match percentage is used as the
// score when present. The viewer's own profile is skipped.
func (s *Scorer) Assess(viewer *housing.RoommateProfile, candidates []housing.RoommateProfile, c criteria.RoommateCriteria) []ranking.RoommateMatch {
	out := make([]ranking.RoommateMatch, 0, len(candidates))
	for _, p := range candidates {
		if viewer != nil && viewer.ID != "" && p.ID == viewer.ID {
			continue
		}
		m := ranking.RoommateMatch{Record: p, Passed: predicate.RoommatePasses(p, c)}
		switch {
		case viewer != nil:
			score := s.Score(*viewer, p)
			m.Score = &score
		case p.MatchPercentage > 0:
			score := clamp(p.MatchPercentage, 0, 100)
			m.Score = &score
		}
		out = append(out, m)
	}
	return out
}

// Match returns the passing candidates, scored and ranked by c.SortBy.
func (s *Scorer) Match(viewer *housing.RoommateProfile, candidates []housing.RoommateProfile, c criteria.RoommateCriteria) []ranking.RoommateMatch {
	assessed := s.Assess(viewer, candidates, c)
	passed := assessed[:0]
	for _, m := range assessed {
		if m.Passed {
			passed = append(passed, m)
		}
	}
	return ranking.Roommates(passed, c.SortBy)
}
