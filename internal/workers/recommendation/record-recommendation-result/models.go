package recordrecommendationresult

import (
	"time"

	"course-recommendation-workers/internal/recommendation"
)

type Input struct {
	UserID               string                           `json:"userId"`
	AssessmentID         string                           `json:"assessmentId"`
	RecommendedCourseIDs []string                         `json:"recommendedCourseIds"`
	CareerPathways       []string                         `json:"careerPathways"`
	Scores               []recommendation.AssessmentScore `json:"scores,omitempty"`
}

type Output struct {
	ResultID   string    `json:"resultId"`
	Created    bool      `json:"created"`
	RecordedAt time.Time `json:"recordedAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId", "assessmentId", "recommendedCourseIds"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "assessmentId": {"type": "string", "minLength": 1},
    "recommendedCourseIds": {"type": "array", "items": {"type": "string"}},
    "careerPathways": {"type": ["array", "null"], "items": {"type": "string"}},
    "scores": {
      "type": ["array", "null"],
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
