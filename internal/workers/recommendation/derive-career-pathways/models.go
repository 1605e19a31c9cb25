package derivecareerpathways

import "course-recommendation-workers/internal/recommendation"

type Input struct {
	UserID       string                           `json:"userId"`
	AssessmentID string                           `json:"assessmentId"`
	Scores       []recommendation.AssessmentScore `json:"scores"`
}

type Output struct {
	CareerPathways []string `json:"careerPathways"`
	PathwayCount   int      `json:"pathwayCount"`
	UsedFallback   bool     `json:"usedFallback"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId", "scores"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "assessmentId": {"type": "string"},
    "scores": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "score"],
        "properties": {
          "category": {"type": "string"},
          "score": {"type": "number"}
        }
      }
    }
  }
}`
