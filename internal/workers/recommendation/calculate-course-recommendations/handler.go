package calculatecourserecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"course-recommendation-workers/internal/catalog"
	"course-recommendation-workers/internal/common/camunda"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/metrics"
	"course-recommendation-workers/internal/common/observability"
	"course-recommendation-workers/internal/common/validation"
	"course-recommendation-workers/internal/recommendation"
)

const (
	TaskType = "calculate-course-recommendations"
)

var (
	ErrInvalidInput = errors.New("INVALID_ASSESSMENT_INPUT")
)

var schema = validation.MustCompile(TaskType, inputSchema)

// CourseSource supplies the full active catalog.
type CourseSource interface {
	ActiveCourses(ctx context.Context) ([]recommendation.Course, error)
}

// PathwayCatalog supplies candidate courses for a set of pathways.
type PathwayCatalog interface {
	Courses(ctx context.Context, pathways []string) ([]recommendation.Course, error)
}

// HistoryLoader loads the stored profile and prior results of a learner.
type HistoryLoader interface {
	Load(ctx context.Context, userID string) (*catalog.LearnerHistory, error)
}

// Dependencies are the data sources of the handler. Search may be nil, in
// which case the whole active catalog is scored.
type Dependencies struct {
	Courses CourseSource
	Search  PathwayCatalog
	History HistoryLoader
	Obs     *observability.Observability
}

type Handler struct {
	config       *Config
	engine       *recommendation.Engine
	deps         Dependencies
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine *recommendation.Engine, deps Dependencies, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		deps:         deps,
		errorHandler: apperrors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, output)
}

func parseInput(variables string) (*Input, error) {
	if result := schema.Validate([]byte(variables)); !result.Valid {
		return nil, apperrors.NewInvalidAssessmentInputError(result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidAssessmentInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	ctx, span := h.deps.Obs.StartSpan(ctx, "recommendation.calculate",
		attribute.String("user.id", input.UserID),
		attribute.String("assessment.id", input.AssessmentID),
	)
	defer span.End()

	req := recommendation.Request{
		Scores:       input.Scores,
		Profile:      input.UserProfile,
		PriorResults: input.PriorResults,
		Strategy:     h.resolveStrategy(input.Strategy),
		Limit:        input.Limit,
	}
	if req.Limit <= 0 {
		req.Limit = h.config.DefaultLimit
	}

	if err := h.attachHistory(ctx, input.UserID, &req); err != nil {
		return nil, err
	}

	courses, err := h.loadCourses(ctx, input, req.Scores)
	if err != nil {
		return nil, err
	}
	req.Courses = courses

	resp := h.engine.Recommend(req)

	scores := make([]int, 0, len(resp.Recommendations))
	recs := make([]RecommendedCourse, 0, len(resp.Recommendations))
	for _, r := range resp.Recommendations {
		scores = append(scores, r.RelevanceScore)
		recs = append(recs, RecommendedCourse{
			CourseID:       r.Course.ID,
			Title:          r.Course.Title,
			Code:           r.Course.Code,
			Level:          string(r.Course.Level),
			RelevanceScore: r.RelevanceScore,
			MatchFactors:   r.MatchFactors,
			Explanations:   r.Explanations,
		})
	}
	metrics.ObserveRecommendations(string(resp.Strategy), scores)

	fields := map[string]interface{}{
		"userId":         input.UserID,
		"strategy":       string(resp.Strategy),
		"count":          len(recs),
		"candidateCount": resp.CandidateCount,
	}
	if len(scores) > 0 {
		fields["topScore"] = scores[0]
	}
	h.logger.Info("recommendations generated", fields)

	return &Output{
		CareerPathways:       resp.CareerPathways,
		Strategy:             string(resp.Strategy),
		Recommendations:      recs,
		RecommendedCourseIDs: resp.CourseIDs(),
		CandidateCount:       resp.CandidateCount,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}

func (h *Handler) resolveStrategy(requested string) recommendation.StrategyKind {
	if requested == "" {
		requested = h.config.DefaultStrategy
	}
	return recommendation.ParseStrategy(requested)
}

// attachHistory fills in the stored profile and prior results when the
// request may use the weighted strategy and did not carry them inline.
// Without any profile the request is scored with the score-band strategy.
func (h *Handler) attachHistory(ctx context.Context, userID string, req *recommendation.Request) error {
	if req.Strategy == recommendation.StrategyScoreBand || req.Profile != nil || h.deps.History == nil {
		if req.Profile == nil && req.Strategy == recommendation.StrategyWeighted {
			req.Strategy = recommendation.StrategyScoreBand
		}
		return nil
	}

	history, err := h.deps.History.Load(ctx, userID)
	if err != nil {
		return apperrors.NewLearnerHistoryUnavailableError(userID, err)
	}

	if len(req.PriorResults) == 0 {
		req.PriorResults = history.PriorResults
	}
	req.Profile = history.Profile
	if req.Profile == nil {
		h.logger.Debug("no learner profile, scoring by assessment bands", map[string]interface{}{
			"userId": userID,
		})
		req.Strategy = recommendation.StrategyScoreBand
	}
	return nil
}

func (h *Handler) loadCourses(ctx context.Context, input *Input, scores []recommendation.AssessmentScore) ([]recommendation.Course, error) {
	if len(input.Courses) > 0 {
		courses := make([]recommendation.Course, 0, len(input.Courses))
		for _, c := range input.Courses {
			courses = append(courses, c.toCourse())
		}
		return courses, nil
	}

	ctx, span := h.deps.Obs.StartSpan(ctx, "catalog.load")
	defer span.End()

	if h.deps.Search != nil {
		courses, err := h.deps.Search.Courses(ctx, h.engine.DerivePathways(scores))
		if err != nil {
			return nil, apperrors.NewCatalogUnavailableError(err).WithMetadata("source", "elasticsearch")
		}
		return courses, nil
	}

	if h.deps.Courses == nil {
		return nil, apperrors.NewCatalogUnavailableError(errors.New("no course source configured"))
	}
	courses, err := h.deps.Courses.ActiveCourses(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(err).WithMetadata("source", "postgres")
	}
	return courses, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return err
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
