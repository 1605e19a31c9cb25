package querypostgresql

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
	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config       *Config
	repo         queries.Repository
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, repo queries.Repository, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		repo:         repo,
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
		return nil, apperrors.NewBusinessRuleError("Invalid query input", result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewBusinessRuleError("Invalid query input", fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewBusinessRuleError("Invalid query input", "input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, apperrors.NewInvalidQueryTypeError(input.QueryType)
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.repo, queryType, queries.Params{
		UserID:    input.UserID,
		CourseIDs: input.CourseIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrMissingParam):
			return nil, apperrors.NewBusinessRuleError("Missing query parameter",
				fmt.Sprintf("%s: %v", input.QueryType, err))
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, apperrors.NewQueryTimeoutError(input.QueryType)
		}
		return nil, apperrors.NewQueryExecutionFailedError(input.QueryType, err)
	}

	h.logger.Debug("query executed", map[string]interface{}{
		"queryType": input.QueryType,
		"rowCount":  rowCount,
		"elapsedMs": execTime,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
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
