// Package recommendation scores a course catalog against a learner's
// assessment results and selects a small, diversified set of courses.
//
// Everything in this package is a pure function of its inputs plus the
// injected Tables and Config. Nothing is cached between calls, so an Engine
// can be shared by concurrent job handlers.
package recommendation

import "strings"

// Level is the difficulty of a course or the experience of a learner.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel normalises free text to a Level. Unknown values become beginner.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intermediate":
		return LevelIntermediate
	case "advanced":
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// Ordinal returns 0, 1 or 2 for beginner, intermediate and advanced.
func (l Level) Ordinal() int {
	switch ParseLevel(string(l)) {
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2
	default:
		return 0
	}
}

// AssessmentScore is one graded assessment category for a learner.
type AssessmentScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Course is a read-only catalog entry.
type Course struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Code            string   `json:"code"`
	Description     string   `json:"description,omitempty"`
	Level           Level    `json:"level"`
	Duration        string   `json:"duration,omitempty"`
	CareerPathways  []string `json:"careerPathways"`
	Requirements    []string `json:"requirements"`
	SkillsDeveloped []string `json:"skillsDeveloped"`
	IsActive        bool     `json:"isActive"`
}

// UserProfile describes the learner for history-aware scoring.
type UserProfile struct {
	Skills          []string `json:"skills"`
	ExperienceLevel Level    `json:"experienceLevel"`
	EnrolledCourses []Course `json:"enrolledCourses"`
}

// AssessmentResult is a previously recorded recommendation for the learner.
type AssessmentResult struct {
	AssessmentID         string   `json:"assessmentId"`
	CareerPathways       []string `json:"careerPathways"`
	RecommendedCourseIDs []string `json:"recommendedCourseIds,omitempty"`
}

// MatchFactors holds the per-factor sub-scores that make up a relevance score.
type MatchFactors map[string]float64

// Factor names.
const (
	FactorPathwayMatch   = "pathwayMatch"
	FactorLevelMatch     = "levelMatch"
	FactorSkillsMatch    = "skillsMatch"
	FactorCategoryMatch  = "categoryMatch"
	FactorDiversityBonus = "diversityBonus"

	FactorCareerPathwayMatch = "careerPathwayMatch"
	FactorSkillGapMatch      = "skillGapMatch"
	FactorPrerequisiteMatch  = "prerequisiteMatch"
	FactorUserHistoryMatch   = "userHistoryMatch"
)

// ScoredCourse is a course with its relevance score, before selection.
type ScoredCourse struct {
	Course          Course       `json:"course"`
	RelevanceScore  int          `json:"relevanceScore"`
	MatchFactors    MatchFactors `json:"matchFactors"`
	Strategy        StrategyKind `json:"strategy"`
	MatchedPathways []string     `json:"matchedPathways,omitempty"`
	NewSkills       []string     `json:"newSkills,omitempty"`
}

// Recommendation is the engine's output unit.
type Recommendation struct {
	Course         Course       `json:"course"`
	RelevanceScore int          `json:"relevanceScore"`
	MatchFactors   MatchFactors `json:"matchFactors"`
	Explanations   []string     `json:"explanations"`
}

// Request is everything the engine needs for one learner.
type Request struct {
	Scores       []AssessmentScore  `json:"scores"`
	Courses      []Course           `json:"courses"`
	Profile      *UserProfile       `json:"userProfile,omitempty"`
	PriorResults []AssessmentResult `json:"priorResults,omitempty"`
	Strategy     StrategyKind       `json:"strategy,omitempty"`
	Limit        int                `json:"limit,omitempty"`
}

// Response is the ranked, explained output of Engine.Recommend.
type Response struct {
	CareerPathways  []string         `json:"careerPathways"`
	Strategy        StrategyKind     `json:"strategy"`
	Recommendations []Recommendation `json:"recommendations"`
	CandidateCount  int              `json:"candidateCount"`
}

// CourseIDs returns the IDs of the recommended courses in rank order.
func (r Response) CourseIDs() []string {
	ids := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		ids = append(ids, rec.Course.ID)
	}
	return ids
}
