package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/ai"
	"github.com/spigell/roomeo/internal/compat"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Matcher struct {
	generator contentGenerator
	scorer    *compat.Scorer
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// NewMatcher returns a matcher that asks generator about each pair. The
// rule-based score from scorer is included in the prompt when scorer is set.
func NewMatcher(generator contentGenerator, scorer *compat.Scorer, logger *zap.Logger, minScore float64, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		scorer:    scorer,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

var _ ai.Matcher = (*Matcher)(nil)

func (m *Matcher) Evaluate(ctx context.Context, viewer, candidate *housing.RoommateProfile) (*ai.FitAssessment, error) {
	if viewer == nil {
		return nil, fmt.Errorf("viewer profile is required")
	}
	if candidate == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}

	viewerJSON, err := json.MarshalIndent(viewer, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal viewer profile: %w", err)
	}

	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate profile: %w", err)
	}

	ruleScore := "unknown"
	if m.scorer != nil {
		ruleScore = strconv.Itoa(m.scorer.Score(*viewer, *candidate))
	}

	prompt := buildPrompt(string(viewerJSON), string(candidateJSON), ruleScore)

	m.logger.Debug("gemini generate content request",
		zap.String("candidate_id", candidate.ID),
		zap.String("viewer_id", viewer.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("candidate_id", candidate.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("candidate_id", candidate.ID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(viewerJSON, candidateJSON, ruleScore string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Viewer:\n{{VIEWER_JSON}}\n\nCandidate:\n{{CANDIDATE_JSON}}\n\nJSON Response:"
	}
	return strings.NewReplacer(
		"{{VIEWER_JSON}}", viewerJSON,
		"{{CANDIDATE_JSON}}", candidateJSON,
		"{{RULE_SCORE}}", ruleScore,
	).Replace(template)
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:     coerceBool(data["fit"]),
		Score:   score,
		Reason:  coerceString(data["reason"]),
		Message: coerceString(data["message"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	// Models sometimes wrap the object in prose.
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start > 0 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
