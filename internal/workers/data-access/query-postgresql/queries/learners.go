// internal/workers/data-access/query-postgresql/queries/learners.go
package queries

import (
	"context"
	"errors"

	"course-recommendation-workers/internal/catalog"
	"course-recommendation-workers/internal/models"
)

// LearnerProfile yields nil data and a zero row count for a learner without a profile.
func LearnerProfile(ctx context.Context, repo Repository, params Params) (interface{}, int, error) {
	if params.UserID == "" {
		return nil, 0, ErrMissingParam
	}
	profile, err := repo.LearnerProfile(ctx, params.UserID)
	if errors.Is(err, catalog.ErrProfileNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return profile, 1, nil
}

func EnrolledCourses(ctx context.Context, repo Repository, params Params) (interface{}, int, error) {
	if params.UserID == "" {
		return nil, 0, ErrMissingParam
	}
	records, err := repo.EnrolledCourseRecords(ctx, params.UserID)
	if err != nil {
		return nil, 0, err
	}
	return nonNilCourses(records), len(records), nil
}

// AssessmentHistory lists the learner's recorded results, most recent first.
func AssessmentHistory(ctx context.Context, repo Repository, params Params) (interface{}, int, error) {
	if params.UserID == "" {
		return nil, 0, ErrMissingParam
	}
	results, err := repo.AssessmentHistory(ctx, params.UserID)
	if err != nil {
		return nil, 0, err
	}
	if results == nil {
		results = []models.AssessmentResultRecord{}
	}
	return results, len(results), nil
}
