package notifyrecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"course-recommendation-workers/internal/catalog"
	"course-recommendation-workers/internal/common/camunda"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/validation"
	"course-recommendation-workers/internal/models"
)

const (
	TaskType = "notify-recommendations"
)

var (
	ErrInvalidInput = errors.New("INVALID_ASSESSMENT_INPUT")
)

var schema = validation.MustCompile(TaskType, inputSchema)

type ContactStore interface {
	UserContact(ctx context.Context, userID string) (*models.UserContact, error)
}

// SESService is satisfied by aws.SESClient.
type SESService interface {
	SendHTMLEmail(ctx context.Context, to, subject, html, text string) (string, error)
}

// SNSService is satisfied by aws.SNSClient.
type SNSService interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	contacts     ContactStore
	sesClient    SESService
	snsClient    SNSService
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, contacts ContactStore, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		contacts:     contacts,
		sesClient:    sesClient,
		snsClient:    snsClient,
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

	notificationID := uuid.New().String()
	channels := []string{}

	emailWanted := h.config.EmailEnabled && h.sesClient != nil
	smsWanted := h.config.SMSEnabled && h.snsClient != nil &&
		MeetsThreshold(input.Priority, h.config.PriorityThreshold)

	if !emailWanted && !smsWanted {
		h.logger.Debug("no notification channel enabled", map[string]interface{}{
			"userId":   input.UserID,
			"priority": input.Priority,
		})
		return &Output{
			NotificationID: notificationID,
			Status:         models.NotificationStatusDisabled,
			Channels:       channels,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	contact, err := h.contacts.UserContact(ctx, input.UserID)
	if errors.Is(err, catalog.ErrUserNotFound) {
		return nil, apperrors.NewRecipientNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("user_contact", err)
	}

	msg := buildMessage(input, h.config.MaxCourses)

	var sendErr error
	if emailWanted && contact.Email != "" {
		if _, err := h.sesClient.SendHTMLEmail(ctx, contact.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":  err,
				"userId": input.UserID,
			})
			sendErr = apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		} else {
			channels = append(channels, ChannelEmail)
		}
	}

	if smsWanted && contact.Phone != "" {
		if _, err := h.snsClient.SendSMS(ctx, contact.Phone, msg.SMS); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":  err,
				"userId": input.UserID,
			})
			if sendErr == nil {
				sendErr = apperrors.NewNotificationSendFailedError(ChannelSMS, err)
			}
		} else {
			channels = append(channels, ChannelSMS)
		}
	}

	status := models.NotificationStatusDisabled
	switch {
	case sendErr != nil:
		if h.config.RetryOnFailure {
			return nil, sendErr
		}
		status = models.NotificationStatusFailed
	case len(channels) > 0:
		status = models.NotificationStatusSent
	}

	h.logger.Info("recommendation notification processed", map[string]interface{}{
		"userId":         input.UserID,
		"notificationId": notificationID,
		"status":         status,
		"channels":       strings.Join(channels, ","),
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		Channels:       channels,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

var priorityRank = map[string]int{
	PriorityLow:    0,
	PriorityNormal: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

// MeetsThreshold reports whether priority is at or above threshold. Unknown or
// empty priorities count as normal.
func MeetsThreshold(priority, threshold string) bool {
	return rank(priority) >= rank(threshold)
}

func rank(priority string) int {
	if r, ok := priorityRank[strings.ToLower(strings.TrimSpace(priority))]; ok {
		return r
	}
	return priorityRank[PriorityNormal]
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
