// internal/workers/data-access/query-postgresql/queries/courses.go
package queries

import (
	"context"

	"course-recommendation-workers/internal/models"
)

func ActiveCourses(ctx context.Context, repo Repository, _ Params) (interface{}, int, error) {
	records, err := repo.ActiveCourseRecords(ctx)
	if err != nil {
		return nil, 0, err
	}
	return nonNilCourses(records), len(records), nil
}

// CourseDetails returns the requested courses whether or not they are active.
func CourseDetails(ctx context.Context, repo Repository, params Params) (interface{}, int, error) {
	if len(params.CourseIDs) == 0 {
		return nil, 0, ErrMissingParam
	}
	records, err := repo.CourseRecords(ctx, params.CourseIDs)
	if err != nil {
		return nil, 0, err
	}
	return nonNilCourses(records), len(records), nil
}

func nonNilCourses(records []models.CourseRecord) []models.CourseRecord {
	if records == nil {
		return []models.CourseRecord{}
	}
	return records
}
