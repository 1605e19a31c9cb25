package recommendation

import "math"

// WeightedStrategy scores courses from the learner's skills, level and history.
// Each factor lies in [0,1]; the weighted sum is scaled to 0-100.
type WeightedStrategy struct {
	cfg Config
}

func NewWeightedStrategy(cfg Config) *WeightedStrategy {
	return &WeightedStrategy{cfg: cfg}
}

func (w *WeightedStrategy) Kind() StrategyKind { return StrategyWeighted }

func (w *WeightedStrategy) Score(course Course, in ScoringInput, state SelectionState) (ScoredCourse, SelectionState) {
	profile := UserProfile{ExperienceLevel: LevelBeginner}
	if in.Profile != nil {
		profile = *in.Profile
	}
	userSkills := newStringSet(profile.Skills)

	career := Jaccard(priorPathways(in), course.CareerPathways)
	newSkills := missingFrom(course.SkillsDeveloped, userSkills)
	skillGap := skillGapMatch(course.SkillsDeveloped, newSkills)
	level := w.levelMatch(course.Level, profile.ExperienceLevel)
	prereq := prerequisiteMatch(course.Requirements, userSkills)
	history := w.userHistoryMatch(course, profile.EnrolledCourses)

	wt := w.cfg.Weights
	composite := wt.CareerPathway*career +
		wt.SkillGap*skillGap +
		wt.Level*level +
		wt.Prerequisite*prereq +
		wt.UserHistory*history

	score := int(math.Round(composite * 100))
	if score > w.cfg.MaxScore {
		score = w.cfg.MaxScore
	}
	if score < 0 {
		score = 0
	}

	return ScoredCourse{
		Course:         course,
		RelevanceScore: score,
		MatchFactors: MatchFactors{
			FactorCareerPathwayMatch: round4(career),
			FactorSkillGapMatch:      round4(skillGap),
			FactorLevelMatch:         round4(level),
			FactorPrerequisiteMatch:  round4(prereq),
			FactorUserHistoryMatch:   round4(history),
		},
		Strategy:        StrategyWeighted,
		MatchedPathways: MatchedPathways(course.CareerPathways, priorPathways(in)),
		NewSkills:       newSkills,
	}, state.Observe(course)
}

// priorPathways is every pathway from earlier results. Without history the
// pathways derived for the current request stand in.
func priorPathways(in ScoringInput) []string {
	var out []string
	for _, r := range in.PriorResults {
		out = append(out, r.CareerPathways...)
	}
	if len(out) == 0 {
		return in.Pathways
	}
	return out
}

func skillGapMatch(courseSkills, newSkills []string) float64 {
	distinct := len(newStringSet(courseSkills))
	if distinct == 0 {
		return 0
	}
	return float64(len(newSkills)) / float64(distinct)
}

func (w *WeightedStrategy) levelMatch(course, user Level) float64 {
	diff := course.Ordinal() - user.Ordinal()
	switch {
	case diff == 0:
		return 1
	case diff > 1:
		return 0
	default:
		return w.cfg.AdjacentLevelMatch
	}
}

func prerequisiteMatch(requirements []string, userSkills stringSet) float64 {
	reqs := newStringSet(requirements)
	if len(reqs) == 0 {
		return 1
	}
	met := 0
	for r := range reqs {
		if userSkills.has(r) {
			met++
		}
	}
	return float64(met) / float64(len(reqs))
}

func (w *WeightedStrategy) userHistoryMatch(course Course, enrolled []Course) float64 {
	if len(enrolled) == 0 {
		return w.cfg.NoHistoryMatch
	}
	total := 0.0
	for _, e := range enrolled {
		total += Jaccard(course.CareerPathways, e.CareerPathways)
	}
	return total / float64(len(enrolled))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
