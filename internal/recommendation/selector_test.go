package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoredCourse(id string, score int, level Level, pathways ...string) ScoredCourse {
	return ScoredCourse{
		Course:         course(id, level, pathways),
		RelevanceScore: score,
	}
}

func ids(scored []ScoredCourse) []string {
	out := make([]string, 0, len(scored))
	for _, sc := range scored {
		out = append(out, sc.Course.ID)
	}
	return out
}

// ==========================
// Diversifying Selector
// ==========================

func TestSelectTopN_Edges(t *testing.T) {
	one := []ScoredCourse{scoredCourse("a", 50, LevelBeginner, "Data Science")}

	assert.Empty(t, SelectTopN(nil, 3))
	assert.NotNil(t, SelectTopN(nil, 3))
	assert.Empty(t, SelectTopN(one, 0))
	assert.Empty(t, SelectTopN(one, -1))
	assert.Equal(t, []string{"a"}, ids(SelectTopN(one, 5)))
}

func TestSelectTopN_SingleTakesHighestAndFirstOnTie(t *testing.T) {
	scored := []ScoredCourse{
		scoredCourse("low", 40, LevelBeginner, "Data Science"),
		scoredCourse("first", 90, LevelBeginner, "Data Science"),
		scoredCourse("second", 90, LevelAdvanced, "Cloud Engineering"),
	}
	assert.Equal(t, []string{"first"}, ids(SelectTopN(scored, 1)))
}

func TestSelectTopN_PrefersNewPathways(t *testing.T) {
	scored := []ScoredCourse{
		scoredCourse("a1", 90, LevelBeginner, "Data Science"),
		scoredCourse("a2", 89, LevelBeginner, "Data Science"),
		scoredCourse("a3", 88, LevelBeginner, "data science"),
		scoredCourse("b1", 82, LevelBeginner, "Web Development"),
	}

	assert.Equal(t, []string{"a1", "b1"}, ids(SelectTopN(scored, 2)))
	// no novelty left, so the best remaining fills the slot
	assert.Equal(t, []string{"a1", "b1", "a2"}, ids(SelectTopN(scored, 3)))
}

func TestSelectTopN_NewLevelCountsAsNovelty(t *testing.T) {
	scored := []ScoredCourse{
		scoredCourse("a1", 90, LevelBeginner, "Data Science"),
		scoredCourse("a2", 89, LevelBeginner, "Data Science"),
		scoredCourse("adv", 70, LevelAdvanced, "Data Science"),
	}
	assert.Equal(t, []string{"a1", "adv"}, ids(SelectTopN(scored, 2)))
}

func TestSelectTopN_SizeAndUniqueness(t *testing.T) {
	scored := []ScoredCourse{
		scoredCourse("x", 70, LevelBeginner, "Data Science"),
		scoredCourse("y", 65, LevelIntermediate, "Web Development"),
		scoredCourse("x", 95, LevelBeginner, "Data Science"),
		scoredCourse("z", 60, LevelAdvanced),
	}

	for n := 1; n <= 6; n++ {
		got := SelectTopN(scored, n)
		assert.Len(t, got, min(n, 3))

		seen := make(map[string]bool)
		for _, sc := range got {
			assert.False(t, seen[sc.Course.ID], "duplicate course %s", sc.Course.ID)
			seen[sc.Course.ID] = true
		}
	}

	// the duplicate keeps its best score
	got := SelectTopN(scored, 1)
	assert.Equal(t, 95, got[0].RelevanceScore)
}
