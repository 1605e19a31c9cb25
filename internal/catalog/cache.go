package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"course-recommendation-workers/internal/common/database"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/metrics"
	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"
)

// CachedCourseSource serves the active catalog from redis, loading it from
// the wrapped source on a miss. Redis errors never fail a load.
type CachedCourseSource struct {
	source CourseSource
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedCourseSource(source CourseSource, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedCourseSource {
	return &CachedCourseSource{source: source, rdb: rdb, ttl: ttl, logger: log}
}

func (c *CachedCourseSource) ActiveCourses(ctx context.Context) ([]recommendation.Course, error) {
	var cached []recommendation.Course
	found, err := database.GetJSON(ctx, c.rdb, ActiveCoursesKey, &cached)
	switch {
	case err != nil:
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err})
	case found:
		metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()
	}

	courses, err := c.source.ActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	if err := database.SetJSON(ctx, c.rdb, ActiveCoursesKey, courses, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err})
	}
	return courses, nil
}

// Invalidate drops the cached catalog.
func (c *CachedCourseSource) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, ActiveCoursesKey).Err()
}

// CachedLearnerStore caches assessment history per learner under
// LearnerResultsKey. Profiles and enrollments are always read through.
type CachedLearnerStore struct {
	LearnerStore
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLearnerStore(store LearnerStore, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedLearnerStore {
	return &CachedLearnerStore{LearnerStore: store, rdb: rdb, ttl: ttl, logger: log}
}

func (c *CachedLearnerStore) AssessmentHistory(ctx context.Context, userID string) ([]models.AssessmentResultRecord, error) {
	key := LearnerResultsKey(userID)

	var cached []models.AssessmentResultRecord
	found, err := database.GetJSON(ctx, c.rdb, key, &cached)
	if err != nil {
		c.logger.Warn("learner results cache read failed", map[string]interface{}{"userId": userID, "error": err})
	} else if found {
		return cached, nil
	}

	history, err := c.LearnerStore.AssessmentHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := database.SetJSON(ctx, c.rdb, key, history, c.ttl); err != nil {
		c.logger.Warn("learner results cache write failed", map[string]interface{}{"userId": userID, "error": err})
	}
	return history, nil
}

// InvalidateLearnerResults removes a learner's cached history after a new
// result is recorded.
func InvalidateLearnerResults(ctx context.Context, rdb redis.Cmdable, userID string) error {
	return rdb.Del(ctx, LearnerResultsKey(userID)).Err()
}
