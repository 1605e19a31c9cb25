// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course-recommendation-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Repository is the read side of catalog.PostgresRepository.
type Repository interface {
	ActiveCourseRecords(ctx context.Context) ([]models.CourseRecord, error)
	CourseRecords(ctx context.Context, ids []string) ([]models.CourseRecord, error)
	LearnerProfile(ctx context.Context, userID string) (*models.LearnerProfileRecord, error)
	EnrolledCourseRecords(ctx context.Context, userID string) ([]models.CourseRecord, error)
	AssessmentHistory(ctx context.Context, userID string) ([]models.AssessmentResultRecord, error)
}

type Params struct {
	UserID    string
	CourseIDs []string
}

// QueryFunc returns: data, rowCount, error
type QueryFunc func(ctx context.Context, repo Repository, params Params) (interface{}, int, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeActiveCourses:     ActiveCourses,
	models.QueryTypeCourseDetails:     CourseDetails,
	models.QueryTypeLearnerProfile:    LearnerProfile,
	models.QueryTypeEnrolledCourses:   EnrolledCourses,
	models.QueryTypeAssessmentHistory: AssessmentHistory,
}

// Execute runs the named query and reports its execution time in milliseconds.
func Execute(ctx context.Context, repo Repository, queryType models.QueryType, params Params) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	start := time.Now()
	data, rowCount, err := fn(ctx, repo, params)
	return data, rowCount, time.Since(start).Milliseconds(), err
}
