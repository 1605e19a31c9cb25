package recommendation

import "fmt"

// Engine runs the full pipeline: derive pathways, score, select, explain.
type Engine struct {
	tables    Tables
	cfg       Config
	scoreBand *ScoreBandStrategy
	weighted  *WeightedStrategy
}

// NewEngine validates tables and cfg and returns a ready engine.
func NewEngine(tables Tables, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lookup tables: %w", err)
	}
	return &Engine{
		tables:    tables,
		cfg:       cfg,
		scoreBand: NewScoreBandStrategy(tables, cfg),
		weighted:  NewWeightedStrategy(cfg),
	}, nil
}

// NewDefaultEngine uses the built-in tables and configuration.
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultTables(), DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Tables() Tables { return e.tables }
func (e *Engine) Config() Config { return e.cfg }

// DerivePathways runs the pathway deriver with the engine's tables.
func (e *Engine) DerivePathways(scores []AssessmentScore) []string {
	return DerivePathways(e.tables, e.cfg, scores)
}

// DerivePathwaysWithFallback also reports whether no category was recognised.
func (e *Engine) DerivePathwaysWithFallback(scores []AssessmentScore) ([]string, bool) {
	return DerivePathwaysWithFallback(e.tables, e.cfg, scores)
}

// Strategy resolves the strategy for a request. Auto means weighted when a
// learner profile is present and score-band otherwise.
func (e *Engine) Strategy(kind StrategyKind, profile *UserProfile) ScoringStrategy {
	switch kind {
	case StrategyWeighted:
		return e.weighted
	case StrategyScoreBand:
		return e.scoreBand
	}
	if profile != nil {
		return e.weighted
	}
	return e.scoreBand
}

// Score scores every eligible course without selecting.
func (e *Engine) Score(req Request) []ScoredCourse {
	pathways := e.DerivePathways(req.Scores)
	return e.score(req, pathways)
}

func (e *Engine) score(req Request, pathways []string) []ScoredCourse {
	strategy := e.Strategy(req.Strategy, req.Profile)
	return ScoreAll(strategy, EligibleCourses(req.Courses), ScoringInput{
		Scores:       req.Scores,
		Pathways:     pathways,
		Profile:      req.Profile,
		PriorResults: req.PriorResults,
	})
}

// Recommend returns at most req.Limit (or the configured default) explained
// recommendations. It never fails: malformed input degrades to defaults.
func (e *Engine) Recommend(req Request) Response {
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	pathways := e.DerivePathways(req.Scores)
	scored := e.score(req, pathways)
	selected := SelectTopN(scored, limit)

	recs := make([]Recommendation, 0, len(selected))
	for _, sc := range selected {
		recs = append(recs, Recommendation{
			Course:         sc.Course,
			RelevanceScore: sc.RelevanceScore,
			MatchFactors:   sc.MatchFactors,
			Explanations:   Explain(sc),
		})
	}

	return Response{
		CareerPathways:  pathways,
		Strategy:        e.Strategy(req.Strategy, req.Profile).Kind(),
		Recommendations: recs,
		CandidateCount:  len(scored),
	}
}

// EligibleCourses keeps active courses, dropping repeated IDs after the first.
func EligibleCourses(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	seen := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		if !c.IsActive {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
