package rankcourserecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"course-recommendation-workers/internal/common/camunda"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/validation"
	"course-recommendation-workers/internal/recommendation"
)

const (
	TaskType = "rank-course-recommendations"
)

var (
	ErrInvalidInput = errors.New("INVALID_ASSESSMENT_INPUT")
)

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	scored := make([]recommendation.ScoredCourse, len(input.ScoredCourses))
	for i, sc := range input.ScoredCourses {
		if sc.Strategy == "" {
			sc.Strategy = inferStrategy(sc.MatchFactors)
		}
		if sc.Strategy == recommendation.StrategyScoreBand && len(sc.MatchedPathways) == 0 {
			sc.MatchedPathways = recommendation.MatchedPathways(sc.Course.CareerPathways, input.CareerPathways)
		}
		scored[i] = sc
	}

	selected := recommendation.SelectTopN(scored, limit)

	ranked := make([]RankedCourse, 0, len(selected))
	for i, sc := range selected {
		ranked = append(ranked, RankedCourse{
			Rank:           i + 1,
			CourseID:       sc.Course.ID,
			Title:          sc.Course.Title,
			Level:          string(recommendation.ParseLevel(string(sc.Course.Level))),
			CareerPathways: sc.Course.CareerPathways,
			RelevanceScore: sc.RelevanceScore,
			MatchFactors:   sc.MatchFactors,
			Explanations:   recommendation.Explain(sc),
		})
	}

	h.logger.Debug("courses ranked", map[string]interface{}{
		"candidates": len(scored),
		"selected":   len(ranked),
	})

	return &Output{
		RankedCourses: ranked,
		TotalCount:    len(scored),
	}, nil
}

// inferStrategy recognises weighted factors when the producer did not say
// which strategy scored the course.
func inferStrategy(f recommendation.MatchFactors) recommendation.StrategyKind {
	if _, ok := f[recommendation.FactorCareerPathwayMatch]; ok {
		return recommendation.StrategyWeighted
	}
	return recommendation.StrategyScoreBand
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
