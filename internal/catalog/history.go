package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"
)

// LearnerHistory is the engine-facing view of a learner.
type LearnerHistory struct {
	// Profile is nil when the learner has no stored profile.
	Profile      *recommendation.UserProfile
	PriorResults []recommendation.AssessmentResult
}

// HistoryLoader assembles a LearnerHistory from the three learner queries,
// which run concurrently.
type HistoryLoader struct {
	store LearnerStore
}

func NewHistoryLoader(store LearnerStore) *HistoryLoader {
	return &HistoryLoader{store: store}
}

func (l *HistoryLoader) Load(ctx context.Context, userID string) (*LearnerHistory, error) {
	var (
		profile  *models.LearnerProfileRecord
		enrolled []recommendation.Course
		results  []models.AssessmentResultRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.store.LearnerProfile(gctx, userID)
		if errors.Is(err, ErrProfileNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("learner profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		courses, err := l.store.EnrolledCourses(gctx, userID)
		if err != nil {
			return fmt.Errorf("enrolled courses: %w", err)
		}
		enrolled = courses
		return nil
	})
	g.Go(func() error {
		history, err := l.store.AssessmentHistory(gctx, userID)
		if err != nil {
			return fmt.Errorf("assessment history: %w", err)
		}
		results = history
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &LearnerHistory{PriorResults: make([]recommendation.AssessmentResult, 0, len(results))}
	for _, r := range results {
		out.PriorResults = append(out.PriorResults, recommendation.AssessmentResult{
			AssessmentID:         r.AssessmentID,
			CareerPathways:       r.CareerPathways,
			RecommendedCourseIDs: r.RecommendedCourseIDs,
		})
	}
	if profile != nil {
		out.Profile = &recommendation.UserProfile{
			Skills:          profile.Skills,
			ExperienceLevel: recommendation.ParseLevel(profile.ExperienceLevel),
			EnrolledCourses: enrolled,
		}
	}
	return out, nil
}
