package recommendation

import "strings"

// StrategyKind selects how courses are scored.
type StrategyKind string

const (
	StrategyAuto      StrategyKind = "auto"
	StrategyScoreBand StrategyKind = "scoreband"
	StrategyWeighted  StrategyKind = "weighted"
)

// ParseStrategy accepts the strategy names case-insensitively; anything else is auto.
func ParseStrategy(s string) StrategyKind {
	switch StrategyKind(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyScoreBand:
		return StrategyScoreBand
	case StrategyWeighted:
		return StrategyWeighted
	default:
		return StrategyAuto
	}
}

// ScoringInput is the per-request context shared by every course in a scoring pass.
type ScoringInput struct {
	Scores       []AssessmentScore
	Pathways     []string
	Profile      *UserProfile
	PriorResults []AssessmentResult
}

// SelectionState accumulates what earlier courses in a scoring pass have
// already covered. It is a value: Observe returns a new state and never
// modifies the receiver.
type SelectionState struct {
	pathways stringSet
	levels   stringSet
	skills   stringSet
}

// NewSelectionState returns an empty accumulator.
func NewSelectionState() SelectionState {
	return SelectionState{
		pathways: make(stringSet),
		levels:   make(stringSet),
		skills:   make(stringSet),
	}
}

// Observe records the course's pathways, level and skills.
func (s SelectionState) Observe(c Course) SelectionState {
	next := SelectionState{
		pathways: s.pathways.clone(),
		levels:   s.levels.clone(),
		skills:   s.skills.clone(),
	}
	for _, p := range c.CareerPathways {
		if k := normalize(p); k != "" {
			next.pathways[k] = struct{}{}
		}
	}
	next.levels[string(ParseLevel(string(c.Level)))] = struct{}{}
	for _, sk := range c.SkillsDeveloped {
		if k := normalize(sk); k != "" {
			next.skills[k] = struct{}{}
		}
	}
	return next
}

// HasPathway reports whether any observed course carried the pathway.
func (s SelectionState) HasPathway(p string) bool { return s.pathways.has(p) }

// HasLevel reports whether any observed course had the level.
func (s SelectionState) HasLevel(l Level) bool { return s.levels.has(string(ParseLevel(string(l)))) }

// HasSkill reports whether any observed course developed the skill.
func (s SelectionState) HasSkill(sk string) bool { return s.skills.has(sk) }

// ScoringStrategy scores one course given the state left by the courses
// scored before it, and returns the state to hand to the next course.
type ScoringStrategy interface {
	Kind() StrategyKind
	Score(course Course, in ScoringInput, state SelectionState) (ScoredCourse, SelectionState)
}

// ScoreAll folds strategy over courses in order, threading the selection state.
func ScoreAll(strategy ScoringStrategy, courses []Course, in ScoringInput) []ScoredCourse {
	out := make([]ScoredCourse, 0, len(courses))
	state := NewSelectionState()
	for _, c := range courses {
		var sc ScoredCourse
		sc, state = strategy.Score(c, in, state)
		out = append(out, sc)
	}
	return out
}
