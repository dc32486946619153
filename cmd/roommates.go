package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/ai"
	"github.com/spigell/roomeo/internal/ai/gemini"
	"github.com/spigell/roomeo/internal/compat"
	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/filtering"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/logger"
	"github.com/spigell/roomeo/internal/ranking"
	"github.com/spigell/roomeo/internal/secrets"
	"github.com/spigell/roomeo/internal/store"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

var roommatesCmd = &cobra.Command{
	Use:   "roommates",
	Short: "Find compatible roommates",
	Run: func(cmd *cobra.Command, _ []string) {
		runRoommates(cmd)
	},
}

func init() {
	rootCmd.AddCommand(roommatesCmd)

	f := roommatesCmd.Flags()
	f.StringP("search", "s", "", "match name, faculty or course")
	f.String("gender", "", "gender or any")
	f.String("faculty", "", "faculty or any")
	f.String("year", "", "year of study: any, N or N+")
	f.String("cleanliness", "", "relaxed, average, neat, very neat or any")
	f.String("smoking", "", "smoking preference or any")
	f.String("sleep", "", "sleep schedule or any")
	f.Float64("budget-min", 0, "lowest acceptable monthly budget (RM)")
	f.Float64("budget-max", criteria.DefaultPriceMax, "highest acceptable monthly budget (RM)")
	f.StringSlice("lifestyle", nil, "lifestyle tags every roommate must have (repeatable)")
	f.String("sort", "", "sort order: "+sortKeys())
	f.String("viewer", "", "id or name of the profile to score against (default is the configured viewer)")
	f.Bool("saved-only", false, "only saved roommates")
	f.Bool("ai", false, "ask the AI provider to assess every candidate")
	f.Bool("explain", false, "show why each candidate scored as it did")
	f.StringP("output", "o", outputTable, "output format: table or json")
}

func runRoommates(cmd *cobra.Command) {
	s := newSession(cmd)
	ctx := context.Background()
	flags := cmd.Flags()

	output, _ := flags.GetString("output")
	if err := validOutput(output); err != nil {
		s.logger.Fatal("invalid flags", zap.Error(err))
	}

	ref, _ := flags.GetString("viewer")
	viewer, err := s.viewer(ref)
	if err != nil {
		s.logger.Fatal("resolving viewer", zap.Error(err))
	}

	c := roommateCriteria(s.config.Roommates.Criteria(), flags).Normalize()
	log := logger.WithFields(s.logger, logger.CommonFields(string(store.KindRoommates), c.SortBy.String())...)

	candidates := s.data.Roommates
	if viewer != nil {
		log.Info("scoring roommates", zap.String("viewer_id", viewer.ID), zap.String("viewer", viewer.Name))
		candidates = withoutProfile(candidates, viewer.ID)
	}

	aiCfg := s.config.AI
	if flags.Changed("ai") {
		enabled, _ := flags.GetBool("ai")
		if aiCfg == nil {
			aiCfg = &AIConfig{}
		}
		aiCfg.Enabled = enabled
	}

	scorer := s.scorer()
	saved := s.savedStore()
	savedOnly, _ := flags.GetBool("saved-only")

	steps := []filtering.Filter[housing.RoommateProfile]{
		filtering.NewRoommateCriteria(log, c),
		filtering.NewSavedRoommates(log, saved, savedOnly),
		prepareAIFilter(ctx, aiCfg, viewer, scorer, log),
	}

	filtered, err := filtering.Run(ctx, log, steps, candidates)
	if err != nil {
		log.Fatal("filtering failed", zap.Error(err))
	}

	matches := scorer.Match(viewer, filtered, c)
	assessments := filtering.CollectAssessments(steps)
	log.Info("roommates found", zap.Int("count", len(matches)), zap.Int("total", len(candidates)))

	explain, _ := flags.GetBool("explain")
	views := roommateViews(matches, viewer, scorer, saved, assessments, explain)

	out := cmd.OutOrStdout()
	if output == outputJSON {
		if err := writeJSON(out, views); err != nil {
			log.Fatal("writing results", zap.Error(err))
		}
		return
	}

	fmt.Fprintln(out, tagLine(c.ActiveTags()))
	if err := printRoommates(out, views, explain); err != nil {
		log.Fatal("writing results", zap.Error(err))
	}
}

func roommateCriteria(base criteria.RoommateCriteria, f *pflag.FlagSet) criteria.RoommateCriteria {
	c := base
	strFlag := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	strFlag("search", &c.Search)
	strFlag("gender", &c.Gender)
	strFlag("faculty", &c.Faculty)
	strFlag("cleanliness", &c.Cleanliness)
	strFlag("smoking", &c.SmokingPreference)
	strFlag("sleep", &c.SleepSchedule)

	if f.Changed("year") {
		v, _ := f.GetString("year")
		c.Year = criteria.ParseCount(v)
	}
	if f.Changed("budget-min") || f.Changed("budget-max") {
		lo, _ := f.GetFloat64("budget-min")
		hi, _ := f.GetFloat64("budget-max")
		if base.BudgetRange.Active() {
			if !f.Changed("budget-min") {
				lo = base.BudgetRange.Min
			}
			if !f.Changed("budget-max") {
				hi = base.BudgetRange.Max
			}
		}
		c.BudgetRange = criteria.NewRange(lo, hi)
	}
	if f.Changed("lifestyle") {
		c.Lifestyle, _ = f.GetStringSlice("lifestyle")
	}
	if f.Changed("sort") {
		v, _ := f.GetString("sort")
		c.SortBy = criteria.ParseSortBy(v)
	}
	return c
}

func withoutProfile(ps housing.Profiles, id string) housing.Profiles {
	out := make(housing.Profiles, 0, len(ps))
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// prepareAIFilter always returns a step; it is disabled when AI is off or
// cannot be set up.
func prepareAIFilter(ctx context.Context, cfg *AIConfig, viewer *housing.RoommateProfile, scorer *compat.Scorer, log *zap.Logger) *filtering.AIFit {
	if cfg == nil || !cfg.Enabled {
		return filtering.NewAIFit(nil, nil)
	}

	gemCfg := cfg.Gemini
	if gemCfg == nil {
		gemCfg = &GeminiConfig{}
	}

	fitCfg := &filtering.AIFitConfig{
		Enabled:         true,
		Provider:        cfg.Provider,
		MinimumFitScore: cfg.MinimumFitScore,
		Gemini: &filtering.AIGeminiConfig{
			Model:        gemCfg.Model,
			MaxRetries:   gemCfg.MaxRetries,
			MaxLogLength: gemCfg.MaxLogLength,
		},
	}

	aiLog := logger.WithAIFields(log, cfg.Provider, gemCfg.Model)
	deps := &filtering.AIFitDeps{Logger: aiLog, Viewer: viewer}
	step := filtering.NewAIFit(fitCfg, deps)

	if viewer == nil {
		aiLog.Warn("skipping AI filter", zap.String("reason", "no viewer profile configured"))
		step.Disable("no viewer profile")
		return step
	}

	matcher, err := newAIMatcher(ctx, cfg, gemCfg, scorer, aiLog)
	if err != nil {
		aiLog.Warn("skipping AI filter", zap.Error(err))
		step.Disable(err.Error())
		return step
	}
	deps.Matcher = matcher

	return step
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, gemCfg *GeminiConfig, scorer *compat.Scorer, log *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gemCfg.APIKeyFile,
		Value: gemCfg.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemCfg.Model, gemCfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := log.With(
		zap.Float64("minimum_fit_score", minScore),
		zap.Int("ai_retry_attempts", gemCfg.MaxRetries),
	)

	return gemini.NewMatcher(generator, scorer, matcherLogger, minScore, gemCfg.MaxLogLength), nil
}

type roommateView struct {
	housing.RoommateProfile
	Score      *int              `json:"score,omitempty"`
	Saved      bool              `json:"saved"`
	Reasons    []string          `json:"reasons,omitempty"`
	Breakdown  *compat.Breakdown `json:"breakdown,omitempty"`
	Assessment *ai.FitAssessment `json:"ai,omitempty"`
}

func roommateViews(matches []ranking.RoommateMatch, viewer *housing.RoommateProfile, scorer *compat.Scorer, saved store.SavedStore, assessments map[string]*ai.FitAssessment, explain bool) []roommateView {
	views := make([]roommateView, 0, len(matches))
	for _, m := range matches {
		v := roommateView{RoommateProfile: m.Record, Score: m.Score, Assessment: assessments[m.Record.ID]}
		v.Saved, _ = saved.Contains(store.KindRoommates, m.Record.ID)
		if explain && viewer != nil {
			b := scorer.Breakdown(*viewer, m.Record)
			v.Breakdown = &b
			v.Reasons = b.Reasons()
		}
		views = append(views, v)
	}
	return views
}

func printRoommates(w io.Writer, views []roommateView, explain bool) error {
	tw := newTable(w, "ID", "NAME", "FACULTY", "YEAR", "BUDGET", "MATCH", "AI", "SAVED")
	for _, v := range views {
		match := "-"
		if v.Score != nil {
			match = strconv.Itoa(*v.Score) + "%"
		}
		row(tw, v.ID, v.Name, v.Faculty, v.Year,
			fmt.Sprintf("RM %d-%d", v.Budget.Min, v.Budget.Max),
			match, aiLabel(v.Assessment), mark(v.Saved))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !explain {
		return nil
	}
	for _, v := range views {
		if v.Breakdown == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d%%)\n", v.Name, v.Breakdown.Score)
		for _, comp := range v.Breakdown.Components {
			fmt.Fprintf(w, "  %-15s %3.0f%% of %2.0f  %s\n", comp.Name, comp.Credit*100, comp.Weight, comp.Reason)
		}
		if v.Assessment != nil && v.Assessment.Reason != "" {
			fmt.Fprintf(w, "  ai: %s\n", v.Assessment.Reason)
		}
	}
	return nil
}

func aiLabel(a *ai.FitAssessment) string {
	switch {
	case a == nil:
		return "-"
	case a.Error != "":
		return "error"
	default:
		return fmt.Sprintf("%.2f", a.Score)
	}
}
