package recommendation

import (
	"math"
	"strings"
)

// ScoreBandStrategy scores courses from assessment score bands alone. Its
// diversity bonus depends on the courses scored before it in the same pass.
type ScoreBandStrategy struct {
	tables Tables
	cfg    Config
}

func NewScoreBandStrategy(tables Tables, cfg Config) *ScoreBandStrategy {
	return &ScoreBandStrategy{tables: tables, cfg: cfg}
}

func (s *ScoreBandStrategy) Kind() StrategyKind { return StrategyScoreBand }

func (s *ScoreBandStrategy) Score(course Course, in ScoringInput, state SelectionState) (ScoredCourse, SelectionState) {
	avg := averageScore(in.Scores)
	matched := MatchedPathways(course.CareerPathways, in.Pathways)

	pathway := s.pathwayMatch(len(matched), avg)
	level := s.levelMatch(course.Level, in.Scores, avg)
	skills, category := s.skillsAndCategoryMatch(course.SkillsDeveloped, in.Scores)
	diversity := s.diversityBonus(course, state)

	total := pathway + level + skills + category + diversity
	score := int(math.Min(float64(s.cfg.MaxScore), math.Max(0, total)))

	var userSkills []string
	if in.Profile != nil {
		userSkills = in.Profile.Skills
	}

	return ScoredCourse{
		Course:         course,
		RelevanceScore: score,
		MatchFactors: MatchFactors{
			FactorPathwayMatch:   pathway,
			FactorLevelMatch:     level,
			FactorSkillsMatch:    skills,
			FactorCategoryMatch:  category,
			FactorDiversityBonus: diversity,
		},
		Strategy:        StrategyScoreBand,
		MatchedPathways: matched,
		NewSkills:       missingFrom(course.SkillsDeveloped, newStringSet(userSkills)),
	}, state.Observe(course)
}

func (s *ScoreBandStrategy) pathwayMatch(matches int, avg float64) float64 {
	points := s.cfg.PathwayPoints.None
	switch {
	case matches >= 2:
		points = s.cfg.PathwayPoints.Many
	case matches == 1:
		points = s.cfg.PathwayPoints.One
	}
	return math.Round(points * avg / 100)
}

// levelMatch is the score-weighted average of the level preference points of
// every category that has a matrix.
func (s *ScoreBandStrategy) levelMatch(level Level, scores []AssessmentScore, avg float64) float64 {
	bd := s.cfg.averageBand(avg)
	lvl := ParseLevel(string(level))

	var weighted, weights float64
	for _, sc := range scores {
		matrix, ok := s.tables.levelMatrix(sc.Category)
		if !ok {
			continue
		}
		w := clampScore(sc.Score) / 100
		weighted += matrix.pick(bd)[lvl] * w
		weights += w
	}
	if weights == 0 {
		return s.cfg.DefaultLevelMatch
	}
	return math.Round(weighted / weights)
}

func (s *ScoreBandStrategy) skillsAndCategoryMatch(skills []string, scores []AssessmentScore) (float64, float64) {
	if len(skills) == 0 || len(scores) == 0 {
		return s.cfg.DefaultSkillsMatch, s.cfg.DefaultCategoryMatch
	}

	lowered := make([]string, len(skills))
	for i, sk := range skills {
		lowered[i] = normalize(sk)
	}

	var categoryHits, skillFraction float64
	for _, sc := range scores {
		keywords := s.tables.keywords(sc.Category)
		if len(keywords) == 0 {
			continue
		}
		relevant := 0
		for _, sk := range lowered {
			if containsAny(sk, keywords) {
				relevant++
			}
		}
		if relevant == 0 {
			continue
		}
		w := clampScore(sc.Score) / 100
		categoryHits += w
		skillFraction += float64(relevant) / float64(len(lowered)) * w
	}

	n := float64(len(scores))
	skillsMatch := math.Min(s.cfg.MaxSkillsMatch, math.Round(s.cfg.MaxSkillsMatch*skillFraction/n))
	categoryMatch := math.Min(s.cfg.MaxCategoryMatch, math.Round(s.cfg.MaxCategoryMatch*categoryHits/n))
	return skillsMatch, categoryMatch
}

func (s *ScoreBandStrategy) diversityBonus(course Course, state SelectionState) float64 {
	d := s.cfg.Diversity

	newPathways := 0
	seen := make(stringSet)
	for _, p := range course.CareerPathways {
		if normalize(p) == "" || seen.has(p) || state.HasPathway(p) {
			continue
		}
		seen[normalize(p)] = struct{}{}
		newPathways++
	}

	newSkills := 0
	seen = make(stringSet)
	for _, sk := range course.SkillsDeveloped {
		if normalize(sk) == "" || seen.has(sk) || state.HasSkill(sk) {
			continue
		}
		seen[normalize(sk)] = struct{}{}
		newSkills++
	}

	bonus := math.Min(d.PathwayCap, d.PerPathway*float64(newPathways))
	if !state.HasLevel(course.Level) {
		bonus += d.NewLevel
	}
	bonus += math.Min(d.SkillCap, d.PerSkill*float64(newSkills))
	return bonus
}

// MatchedPathways returns the course pathways present in derived, in course
// order. Labels compare case-insensitively.
func MatchedPathways(coursePathways, derived []string) []string {
	set := newStringSet(derived)
	var out []string
	seen := make(stringSet)
	for _, p := range coursePathways {
		if !set.has(p) || seen.has(p) {
			continue
		}
		seen[normalize(p)] = struct{}{}
		out = append(out, p)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw = normalize(kw); kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
