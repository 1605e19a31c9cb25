package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/metrics"
	"course-recommendation-workers/internal/recommendation"
)

// BreakerSettings tune the circuit breaker in front of the search index.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// SearchWithFallback loads the pathway-filtered catalog from the search index
// and falls back to the full postgres catalog when the search fails or its
// breaker is open.
type SearchWithFallback struct {
	search   PathwaySearcher
	fallback CourseSource
	cb       *gobreaker.CircuitBreaker[[]recommendation.Course]
	limit    int
	logger   logger.Logger
}

func NewSearchWithFallback(search PathwaySearcher, fallback CourseSource, limit int, settings BreakerSettings, log logger.Logger) *SearchWithFallback {
	cb := gobreaker.NewCircuitBreaker[[]recommendation.Course](gobreaker.Settings{
		Name:        "course-search",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
	return &SearchWithFallback{search: search, fallback: fallback, cb: cb, limit: limit, logger: log}
}

// Courses returns candidate courses for the pathways. An empty search result
// is also treated as a reason to use the full catalog.
func (s *SearchWithFallback) Courses(ctx context.Context, pathways []string) ([]recommendation.Course, error) {
	if len(pathways) > 0 {
		courses, err := s.cb.Execute(func() ([]recommendation.Course, error) {
			return s.search.CoursesByPathways(ctx, pathways, s.limit)
		})
		if err == nil && len(courses) > 0 {
			return courses, nil
		}
		fields := map[string]interface{}{"pathways": pathways}
		if err != nil {
			fields["error"] = err
			fields["breakerOpen"] = errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
		}
		s.logger.Warn("course search unavailable, using postgres catalog", fields)
	}

	metrics.CatalogSearchFallbacks.Inc()
	return s.fallback.ActiveCourses(ctx)
}

func (s *SearchWithFallback) State() gobreaker.State {
	return s.cb.State()
}
