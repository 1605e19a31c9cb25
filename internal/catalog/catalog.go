// Package catalog loads the course catalog and learner history that the
// recommendation workers feed into the engine.
package catalog

import (
	"context"
	"errors"

	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"
)

var (
	ErrProfileNotFound = errors.New("learner profile not found")
	ErrUserNotFound    = errors.New("user not found")
)

// CourseSource returns every active course.
type CourseSource interface {
	ActiveCourses(ctx context.Context) ([]recommendation.Course, error)
}

// PathwaySearcher returns active courses tagged with any of the pathways.
type PathwaySearcher interface {
	CoursesByPathways(ctx context.Context, pathways []string, limit int) ([]recommendation.Course, error)
}

// LearnerStore reads what is known about one learner.
type LearnerStore interface {
	LearnerProfile(ctx context.Context, userID string) (*models.LearnerProfileRecord, error)
	EnrolledCourses(ctx context.Context, userID string) ([]recommendation.Course, error)
	AssessmentHistory(ctx context.Context, userID string) ([]models.AssessmentResultRecord, error)
}

// LearnerResultsKey is the redis key holding a learner's cached assessment history.
func LearnerResultsKey(userID string) string {
	return "learner:results:" + userID
}

// ActiveCoursesKey is the redis key holding the cached active catalog.
const ActiveCoursesKey = "catalog:courses:active"
