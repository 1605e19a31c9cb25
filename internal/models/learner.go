package models

import "time"

type LearnerProfileRecord struct {
	UserID          string   `json:"userId"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
}

// AssessmentResultRecord is a row of assessment_results. One row exists per
// (UserID, AssessmentID); re-recording overwrites it.
type AssessmentResultRecord struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"userId"`
	AssessmentID         string             `json:"assessmentId"`
	CareerPathways       []string           `json:"careerPathways"`
	RecommendedCourseIDs []string           `json:"recommendedCourseIds"`
	Scores               map[string]float64 `json:"scores,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

type UserContact struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
}
