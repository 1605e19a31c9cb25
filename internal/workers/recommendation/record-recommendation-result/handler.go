package recordrecommendationresult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"course-recommendation-workers/internal/catalog"
	"course-recommendation-workers/internal/common/camunda"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/validation"
	"course-recommendation-workers/internal/models"
)

const (
	TaskType = "record-recommendation-result"
)

var (
	ErrInvalidInput = errors.New("INVALID_ASSESSMENT_INPUT")
)

var schema = validation.MustCompile(TaskType, inputSchema)

// ResultStore persists one result per (user, assessment).
type ResultStore interface {
	RecordResult(ctx context.Context, rec models.AssessmentResultRecord) (id string, created bool, err error)
}

type Handler struct {
	config       *Config
	store        ResultStore
	redis        redis.Cmdable
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. rdb may be nil when no learner cache is used.
func NewHandler(config *Config, store ResultStore, rdb redis.Cmdable, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		redis:        rdb,
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
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.AssessmentID) == "" {
		return nil, apperrors.NewInvalidAssessmentInputError("userId and assessmentId are required")
	}

	rec := models.AssessmentResultRecord{
		UserID:               input.UserID,
		AssessmentID:         input.AssessmentID,
		CareerPathways:       nonNil(input.CareerPathways),
		RecommendedCourseIDs: nonNil(input.RecommendedCourseIDs),
	}
	if len(input.Scores) > 0 {
		rec.Scores = make(map[string]float64, len(input.Scores))
		for _, s := range input.Scores {
			rec.Scores[strings.ToLower(strings.TrimSpace(s.Category))] = s.Score
		}
	}

	id, created, err := h.store.RecordResult(ctx, rec)
	if err != nil {
		return nil, apperrors.NewResultUpsertFailedError(err)
	}

	if h.redis != nil {
		if err := catalog.InvalidateLearnerResults(ctx, h.redis, input.UserID); err != nil {
			h.logger.Warn("failed to invalidate learner results cache", map[string]interface{}{
				"userId": input.UserID,
				"error":  err,
			})
		}
	}

	h.logger.Info("recommendation result recorded", map[string]interface{}{
		"userId":       input.UserID,
		"assessmentId": input.AssessmentID,
		"resultId":     id,
		"created":      created,
		"courses":      len(rec.RecommendedCourseIDs),
	})

	return &Output{
		ResultID:   id,
		Created:    created,
		RecordedAt: time.Now().UTC(),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
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
