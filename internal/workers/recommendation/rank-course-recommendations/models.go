package rankcourserecommendations

import "course-recommendation-workers/internal/recommendation"

type Input struct {
	ScoredCourses []recommendation.ScoredCourse `json:"scoredCourses"`
	// CareerPathways are the derived pathways. They fill in matchedPathways
	// for score-band courses whose producer left it out.
	CareerPathways []string `json:"careerPathways,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type Output struct {
	RankedCourses []RankedCourse `json:"rankedCourses"`
	TotalCount    int            `json:"totalCount"`
}

type RankedCourse struct {
	Rank           int                         `json:"rank"`
	CourseID       string                      `json:"courseId"`
	Title          string                      `json:"title"`
	Level          string                      `json:"level"`
	CareerPathways []string                    `json:"careerPathways"`
	RelevanceScore int                         `json:"relevanceScore"`
	MatchFactors   recommendation.MatchFactors `json:"matchFactors"`
	Explanations   []string                    `json:"explanations"`
}

const inputSchema = `{
  "type": "object",
  "required": ["scoredCourses"],
  "properties": {
    "limit": {"type": "integer", "minimum": 0},
    "careerPathways": {"type": ["array", "null"], "items": {"type": "string"}},
    "scoredCourses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["course", "relevanceScore"],
        "properties": {
          "course": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string", "minLength": 1}}
          },
          "relevanceScore": {"type": "integer", "minimum": 0, "maximum": 100},
          "matchFactors": {"type": ["object", "null"]}
        }
      }
    }
  }
}`
