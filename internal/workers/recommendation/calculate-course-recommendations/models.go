package calculatecourserecommendations

import (
	"time"

	"course-recommendation-workers/internal/recommendation"
)

type Input struct {
	UserID       string                            `json:"userId"`
	AssessmentID string                            `json:"assessmentId"`
	Scores       []recommendation.AssessmentScore  `json:"scores"`
	Strategy     string                            `json:"strategy,omitempty"`
	Limit        int                               `json:"limit,omitempty"`
	UserProfile  *recommendation.UserProfile       `json:"userProfile,omitempty"`
	PriorResults []recommendation.AssessmentResult `json:"priorResults,omitempty"`
	Courses      []CourseInput                     `json:"courses,omitempty"`
}

// CourseInput is an inline catalog entry. Courses are active unless
// isActive is explicitly false.
type CourseInput struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Code            string   `json:"code"`
	Description     string   `json:"description,omitempty"`
	Level           string   `json:"level"`
	Duration        string   `json:"duration,omitempty"`
	CareerPathways  []string `json:"careerPathways"`
	Requirements    []string `json:"requirements"`
	SkillsDeveloped []string `json:"skillsDeveloped"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

func (c CourseInput) toCourse() recommendation.Course {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}
	return recommendation.Course{
		ID:              c.ID,
		Title:           c.Title,
		Code:            c.Code,
		Description:     c.Description,
		Level:           recommendation.ParseLevel(c.Level),
		Duration:        c.Duration,
		CareerPathways:  c.CareerPathways,
		Requirements:    c.Requirements,
		SkillsDeveloped: c.SkillsDeveloped,
		IsActive:        active,
	}
}

type Output struct {
	CareerPathways       []string            `json:"careerPathways"`
	Strategy             string              `json:"strategy"`
	Recommendations      []RecommendedCourse `json:"recommendations"`
	RecommendedCourseIDs []string            `json:"recommendedCourseIds"`
	CandidateCount       int                 `json:"candidateCount"`
	GeneratedAt          time.Time           `json:"generatedAt"`
}

type RecommendedCourse struct {
	CourseID       string                      `json:"courseId"`
	Title          string                      `json:"title"`
	Code           string                      `json:"code"`
	Level          string                      `json:"level"`
	RelevanceScore int                         `json:"relevanceScore"`
	MatchFactors   recommendation.MatchFactors `json:"matchFactors"`
	Explanations   []string                    `json:"explanations"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId", "scores"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "assessmentId": {"type": "string"},
    "strategy": {"type": "string"},
    "limit": {"type": "integer", "minimum": 0, "maximum": 50},
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
    },
    "userProfile": {
      "type": ["object", "null"],
      "properties": {
        "skills": {"type": ["array", "null"], "items": {"type": "string"}},
        "experienceLevel": {"type": "string"},
        "enrolledCourses": {"type": ["array", "null"]}
      }
    },
    "priorResults": {"type": ["array", "null"]},
    "courses": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "careerPathways": {"type": ["array", "null"], "items": {"type": "string"}},
          "skillsDeveloped": {"type": ["array", "null"], "items": {"type": "string"}},
          "requirements": {"type": ["array", "null"], "items": {"type": "string"}}
        }
      }
    }
  }
}`
