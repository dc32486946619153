package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/ai"
	"github.com/spigell/roomeo/internal/housing"
)

const AIFitName = "ai_fit"

type AIFitConfig struct {
	Enabled         bool
	Provider        string
	MinimumFitScore float64
	Gemini          *AIGeminiConfig
}

// AIGeminiConfig stores Gemini provider configuration.
type AIGeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

type AIFitDeps struct {
	Logger  *zap.Logger
	Matcher ai.Matcher
	Viewer  *housing.RoommateProfile
}

// AIFit is the AI-based roommate step. Assessments are kept per candidate id
// after Apply.
type AIFit struct {
	toggle
	config      *AIFitConfig
	deps        *AIFitDeps
	assessments map[string]*ai.FitAssessment
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit(cfg *AIFitConfig, deps *AIFitDeps) *AIFit {
	if cfg == nil {
		cfg = &AIFitConfig{}
	}
	if deps == nil {
		deps = &AIFitDeps{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	f := &AIFit{config: cfg, deps: deps, assessments: map[string]*ai.FitAssessment{}}
	if !cfg.Enabled {
		f.Disable("ai assessment is not enabled")
	}
	return f
}

var _ Filter[housing.RoommateProfile] = (*AIFit)(nil)

func (f *AIFit) Name() string { return AIFitName }

func (f *AIFit) Validate() error {
	if f.deps.Matcher == nil {
		return fmt.Errorf("matcher is not initialized: filter is not usable")
	}
	if f.deps.Viewer == nil {
		return fmt.Errorf("a viewer profile is required when ai filter is enabled")
	}

	provider := strings.ToLower(strings.TrimSpace(f.config.Provider))
	if provider != "" && provider != "gemini" {
		return fmt.Errorf("unsupported ai provider %q", f.config.Provider)
	}
	if f.config.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(f.config.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *AIFit) Apply(ctx context.Context, items []housing.RoommateProfile) ([]housing.RoommateProfile, Step, error) {
	approved := make([]housing.RoommateProfile, 0, len(items))

	for i := range items {
		candidate := items[i]
		if err := ctx.Err(); err != nil {
			return nil, Step{}, err
		}

		assessment, err := f.deps.Matcher.Evaluate(ctx, f.deps.Viewer, &candidate)
		if err != nil {
			f.deps.Logger.Warn("AI evaluation failed",
				zap.String("candidate_id", candidate.ID),
				zap.Error(err),
			)
			f.assessments[candidate.ID] = &ai.FitAssessment{Error: err.Error()}
			approved = append(approved, candidate)
			continue
		}

		f.assessments[candidate.ID] = assessment

		if !assessment.Fit {
			f.deps.Logger.Info("candidate rejected by AI provider",
				zap.String("candidate_id", candidate.ID),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)
			continue
		}

		f.deps.Logger.Info("candidate approved by AI",
			zap.String("candidate_id", candidate.ID),
			zap.Float64("ai_score", assessment.Score),
		)
		approved = append(approved, candidate)
	}

	f.deps.Logger.Info("AI filtering completed",
		zap.Int("initial_candidates", len(items)),
		zap.Int("approved_candidates", len(approved)),
	)

	return approved, newStep(len(items), len(approved)), nil
}

// Assessment returns the stored assessment for a candidate, if any.
func (f *AIFit) Assessment(id string) (*ai.FitAssessment, bool) {
	a, ok := f.assessments[id]
	return a, ok
}

// Assessments returns a copy of every stored assessment.
func (f *AIFit) Assessments() map[string]*ai.FitAssessment {
	out := make(map[string]*ai.FitAssessment, len(f.assessments))
	for id, a := range f.assessments {
		out[id] = a
	}
	return out
}

func (f *AIFit) Status() Status {
	details := map[string]string{}
	if f.config.Provider != "" {
		details["provider"] = f.config.Provider
	}
	if f.config.Gemini != nil && f.config.Gemini.Model != "" {
		details["model"] = f.config.Gemini.Model
	}
	if f.config.MinimumFitScore > 0 {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// CollectAssessments gathers the assessments of every AI step in steps.
func CollectAssessments[T any](steps []Filter[T]) map[string]*ai.FitAssessment {
	out := map[string]*ai.FitAssessment{}
	for _, step := range steps {
		fit, ok := any(step).(*AIFit)
		if !ok {
			continue
		}
		for id, a := range fit.Assessments() {
			out[id] = a
		}
	}
	return out
}
