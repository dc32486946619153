package ai

import (
	"context"

	"github.com/spigell/roomeo/internal/housing"
)

type FitAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"-"`
	// Error is set when the provider could not assess the pair.
	Error string `json:"error,omitempty"`
}

// Matcher judges whether candidate would be a good roommate for viewer.
type Matcher interface {
	Evaluate(ctx context.Context, viewer, candidate *housing.RoommateProfile) (*FitAssessment, error)
}
