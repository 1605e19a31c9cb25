package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"course-recommendation-workers/internal/common/camunda"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/validation"
	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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
		return nil, apperrors.NewBusinessRuleError("Invalid search input", result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewBusinessRuleError("Invalid search input", fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewBusinessRuleError("Invalid search input", "input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if queryType != models.QueryTypeCourseIndex && queryType != models.QueryTypeRelatedCourses {
		return nil, apperrors.NewInvalidQueryTypeError(input.QueryType)
	}

	index := input.IndexName
	if index == "" {
		index = h.config.DefaultIndex
	}

	eq := queries.ElasticsearchQuery{
		Index:          index,
		QueryType:      queryType,
		Keywords:       input.Filters.Keywords,
		Level:          input.Filters.Level,
		CareerPathways: input.Filters.CareerPathways,
		CourseID:       input.CourseID,
		SortBy:         input.Filters.SortBy,
	}
	eq.Pagination.From = input.Pagination.From
	eq.Pagination.Size = input.Pagination.Size

	result, err := queries.Execute(ctx, h.client, eq)
	if err != nil {
		return nil, h.mapError(ctx, input.QueryType, index, err)
	}

	h.logger.Debug("search executed", map[string]interface{}{
		"queryType": input.QueryType,
		"index":     index,
		"totalHits": result.TotalHits,
		"returned":  len(result.Data),
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

func (h *Handler) mapError(ctx context.Context, queryType, index string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewSearchTimeoutError(queryType)
	case errors.Is(err, queries.ErrIndexNotFound), errors.Is(err, queries.ErrMissingIndex):
		return apperrors.NewIndexNotFoundError(index)
	case errors.Is(err, queries.ErrMissingCourseID):
		return apperrors.NewBusinessRuleError("Missing search parameter", err.Error())
	case errors.Is(err, queries.ErrCourseNotFound):
		return apperrors.NewResourceNotFoundError("elasticsearch", err.Error())
	}
	return apperrors.NewSearchQueryFailedError(queryType, err)
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
