package recommendation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []Course {
	archived := course("OLD", LevelBeginner, []string{"Data Science"}, "Excel")
	archived.IsActive = false

	ml := course("ML201", LevelAdvanced, []string{"Data Science", "Machine Learning"}, "Machine Learning", "Python")
	ml.Requirements = []string{"python", "statistics"}

	return []Course{
		course("SA101", LevelAdvanced, []string{"Software Architecture"}, "System Design", "programming"),
		course("CUL100", LevelBeginner, []string{"Culinary Arts"}),
		course("DS110", LevelIntermediate, []string{"Data Science"}, "data analysis", "SQL"),
		course("WEB120", LevelBeginner, []string{"Web Development"}, "design", "HTML"),
		course("CLD300", LevelAdvanced, []string{"Cloud Engineering"}, "cloud", "Docker"),
		ml,
		archived,
	}
}

// ==========================
// NewEngine
// ==========================

func TestNewEngine_RejectsInvalidInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.CareerPathway = 0.9
	_, err := NewEngine(DefaultTables(), cfg)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewEngine(Tables{}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoPathways)
}

func TestEngine_StrategyResolution(t *testing.T) {
	e := NewDefaultEngine()

	assert.Equal(t, StrategyScoreBand, e.Strategy(StrategyAuto, nil).Kind())
	assert.Equal(t, StrategyWeighted, e.Strategy(StrategyAuto, &UserProfile{}).Kind())
	assert.Equal(t, StrategyScoreBand, e.Strategy(StrategyScoreBand, &UserProfile{}).Kind())
	assert.Equal(t, StrategyWeighted, e.Strategy(StrategyWeighted, nil).Kind())
	assert.Equal(t, StrategyWeighted, e.Strategy(ParseStrategy(" Weighted "), nil).Kind())
}

// ==========================
// Recommend
// ==========================

func TestRecommend_ScoreBandScenario(t *testing.T) {
	e := NewDefaultEngine()
	resp := e.Recommend(Request{
		Scores:  []AssessmentScore{{Category: "career", Score: 85}},
		Courses: sampleCatalog(),
	})

	assert.Equal(t, StrategyScoreBand, resp.Strategy)
	assert.Equal(t, []string{"Software Architecture", "Data Science"}, resp.CareerPathways)
	assert.Equal(t, 6, resp.CandidateCount)
	require.Len(t, resp.Recommendations, 5)

	byID := make(map[string]Recommendation)
	for _, r := range resp.Recommendations {
		assert.NotEqual(t, "OLD", r.Course.ID)
		assert.GreaterOrEqual(t, r.RelevanceScore, 0)
		assert.LessOrEqual(t, r.RelevanceScore, 100)
		require.NotEmpty(t, r.Explanations)
		assert.Contains(t, r.Explanations[0], r.Course.Title)
		byID[r.Course.ID] = r
	}

	if sa, ok := byID["SA101"]; ok {
		if cul, ok := byID["CUL100"]; ok {
			assert.Greater(t, sa.MatchFactors[FactorPathwayMatch], cul.MatchFactors[FactorPathwayMatch])
		}
	}
}

func TestRecommend_WeightedLevelGap(t *testing.T) {
	e := NewDefaultEngine()
	resp := e.Recommend(Request{
		Scores:  []AssessmentScore{{Category: "career", Score: 85}},
		Courses: []Course{course("SA101", LevelAdvanced, []string{"Software Architecture"}, "System Design")},
		Profile: &UserProfile{ExperienceLevel: LevelBeginner},
	})

	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, StrategyWeighted, resp.Strategy)
	assert.Equal(t, 0.0, rec.MatchFactors[FactorLevelMatch])
	assert.Contains(t, rec.Explanations, "This advanced course builds on knowledge beyond your current level.")
}

func TestRecommend_WeightedPrerequisitesMet(t *testing.T) {
	e := NewDefaultEngine()
	c := course("PY100", LevelBeginner, []string{"Software Development"}, "Scripting")
	c.Requirements = []string{"python"}

	resp := e.Recommend(Request{
		Courses: []Course{c},
		Profile: &UserProfile{Skills: []string{"Python"}, ExperienceLevel: LevelBeginner},
	})

	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, 1.0, rec.MatchFactors[FactorPrerequisiteMatch])
	assert.Contains(t, rec.Explanations, "You already meet all of its prerequisites.")
	assert.Contains(t, rec.Explanations, "You will develop new skills: Scripting.")
}

func TestRecommend_LimitAndEmptyCatalog(t *testing.T) {
	e := NewDefaultEngine()
	scores := []AssessmentScore{{Category: "interest", Score: 75}}

	resp := e.Recommend(Request{Scores: scores, Courses: sampleCatalog(), Limit: 2})
	assert.Len(t, resp.Recommendations, 2)
	assert.Len(t, resp.CourseIDs(), 2)

	resp = e.Recommend(Request{Scores: scores})
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, 0, resp.CandidateCount)
	assert.NotEmpty(t, resp.CareerPathways)
}

func TestRecommend_IsDeterministic(t *testing.T) {
	e := NewDefaultEngine()
	req := Request{
		Scores: []AssessmentScore{
			{Category: "career", Score: 72},
			{Category: "aptitude", Score: 64},
			{Category: "interest", Score: 91},
		},
		Courses: sampleCatalog(),
		Profile: &UserProfile{
			Skills:          []string{"python", "sql"},
			ExperienceLevel: LevelIntermediate,
			EnrolledCourses: []Course{course("E1", LevelBeginner, []string{"Web Development"})},
		},
		PriorResults: []AssessmentResult{{AssessmentID: "prev", CareerPathways: []string{"Data Science"}}},
	}

	first, err := json.Marshal(e.Recommend(req))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(e.Recommend(req))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestEligibleCourses(t *testing.T) {
	dup := course("DS110", LevelAdvanced, nil)
	got := EligibleCourses(append(sampleCatalog(), dup))

	assert.Len(t, got, 6)
	for _, c := range got {
		assert.True(t, c.IsActive)
		if c.ID == "DS110" {
			assert.Equal(t, LevelIntermediate, c.Level)
		}
	}
}

// ==========================
// Explain
// ==========================

func TestExplain(t *testing.T) {
	t.Run("falls back to the course code", func(t *testing.T) {
		c := course("X1", LevelBeginner, nil)
		c.Title = ""
		got := Explain(ScoredCourse{Course: c, Strategy: StrategyScoreBand, MatchFactors: MatchFactors{}})
		assert.Equal(t, []string{"Consider the X1 program which aligns with your interests."}, got)
	})

	t.Run("score-band reasons", func(t *testing.T) {
		sc := ScoredCourse{
			Course:          course("A", LevelAdvanced, []string{"Data Science"}, "SQL", "Python", "Spark", "Airflow"),
			Strategy:        StrategyScoreBand,
			MatchedPathways: []string{"Data Science"},
			MatchFactors: MatchFactors{
				FactorLevelMatch:     25,
				FactorSkillsMatch:    12,
				FactorDiversityBonus: 11,
			},
		}
		got := Explain(sc)
		assert.Contains(t, got, "It matches your recommended pathways: Data Science.")
		assert.Contains(t, got, "Its advanced level suits your assessment profile.")
		assert.Contains(t, got, "It develops skills linked to your strongest areas: SQL, Python, Spark.")
		assert.Contains(t, got, "It adds variety to your learning plan.")
	})

	t.Run("weighted reasons", func(t *testing.T) {
		c := course("B", LevelIntermediate, []string{"Cloud Engineering"})
		c.Requirements = []string{"Linux", "Networking"}
		sc := ScoredCourse{
			Course:   c,
			Strategy: StrategyWeighted,
			MatchFactors: MatchFactors{
				FactorCareerPathwayMatch: 1,
				FactorLevelMatch:         1,
				FactorPrerequisiteMatch:  0,
			},
		}
		got := Explain(sc)
		assert.Contains(t, got, "It aligns closely with your career pathways: Cloud Engineering.")
		assert.Contains(t, got, "Review the prerequisites before enrolling: Linux, Networking.")
		assert.NotContains(t, got, "This intermediate course builds on knowledge beyond your current level.")
	})
}
