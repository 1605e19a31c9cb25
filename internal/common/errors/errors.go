// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidAssessmentInput    ErrorCode = "INVALID_ASSESSMENT_INPUT"
	ErrCodeScoringTablesInvalid      ErrorCode = "SCORING_TABLES_INVALID"
	ErrCodeCatalogUnavailable        ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeLearnerHistoryUnavailable ErrorCode = "LEARNER_HISTORY_UNAVAILABLE"
	ErrCodeResultUpsertFailed        ErrorCode = "RESULT_UPSERT_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRecipientNotFound      ErrorCode = "RECIPIENT_NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewInvalidAssessmentInputError rejects job variables that cannot be scored.
func NewInvalidAssessmentInputError(details string) *StandardError {
	return newError(ErrCodeInvalidAssessmentInput, "Invalid assessment input", details)
}

func NewScoringTablesInvalidError(err error) *StandardError {
	return newError(ErrCodeScoringTablesInvalid, "Scoring tables are invalid", errDetails(err))
}

func NewCatalogUnavailableError(err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Course catalog unavailable", errDetails(err))
}

func NewLearnerHistoryUnavailableError(userID string, err error) *StandardError {
	return newError(ErrCodeLearnerHistoryUnavailable,
		fmt.Sprintf("Learner history unavailable for user %s", userID), errDetails(err))
}

func NewResultUpsertFailedError(err error) *StandardError {
	return newError(ErrCodeResultUpsertFailed, "Failed to record recommendation result", errDetails(err))
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", errDetails(err))
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed,
		fmt.Sprintf("Query execution failed for %s", queryType), errDetails(err))
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, fmt.Sprintf("Query timeout for %s", queryType), "")
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return newError(ErrCodeInvalidQueryType, fmt.Sprintf("Invalid query type: %s", queryType), "")
}

func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed,
		fmt.Sprintf("Search query failed for %s", queryType), errDetails(err))
}

func NewSearchTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeSearchTimeout, fmt.Sprintf("Search timeout for %s", queryType), "")
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, fmt.Sprintf("Index not found: %s", indexName), "")
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed,
		fmt.Sprintf("Failed to send %s notification", channel), errDetails(err))
}

func NewRecipientNotFoundError(userID string) *StandardError {
	return newError(ErrCodeRecipientNotFound, "Notification recipient not found", userID)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the recommendation process model.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidAssessmentInput:    "INVALID_ASSESSMENT_INPUT",
	ErrCodeScoringTablesInvalid:      "SCORING_TABLES_INVALID",
	ErrCodeCatalogUnavailable:        "CATALOG_UNAVAILABLE",
	ErrCodeLearnerHistoryUnavailable: "LEARNER_HISTORY_UNAVAILABLE",
	ErrCodeResultUpsertFailed:        "RESULT_UPSERT_FAILED",
	ErrCodeDatabaseConnectionFailed:  "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:      "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:              "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:          "INVALID_QUERY_TYPE",
	ErrCodeSearchQueryFailed:         "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:             "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:             "INDEX_NOT_FOUND",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
	ErrCodeRecipientNotFound:         "RECIPIENT_NOT_FOUND",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeLearnerHistoryUnavailable,
		ErrCodeResultUpsertFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		"TIMEOUT_ERROR":
		return 2

	default:
		return 0 // business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorCategory":     GetErrorCategory(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "SCORING"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "LEARNER") || strings.Contains(codeStr, "RESULT"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_EXECUTION") || strings.Contains(codeStr, "QUERY_TIMEOUT"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "RECIPIENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
