package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"course-recommendation-workers/internal/common/errors"
)

// RetryConfig bounds the retries of a single broker command.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is used for job completion.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  200 * time.Millisecond,
	MaxDelay:   2 * time.Second,
}

func (r *RetryConfig) backoff(attempt int) time.Duration {
	delay := r.BaseDelay << attempt
	if delay > r.MaxDelay || delay <= 0 {
		delay = r.MaxDelay
	}
	return delay
}

// Retry runs send until it succeeds, fails with a non-transient error or
// exhausts rc.MaxRetries. The returned error is a StandardError.
func Retry(ctx context.Context, rc *RetryConfig, operation string, send func(context.Context) error) error {
	if rc == nil {
		rc = DefaultRetryConfig
	}
	for attempt := 0; ; attempt++ {
		err := send(ctx)
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt == rc.MaxRetries {
			return brokerError(err, operation, attempt+1)
		}

		select {
		case <-time.After(rc.backoff(attempt)):
		case <-ctx.Done():
			return errors.NewTimeoutError("zeebe",
				fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err()))
		}
	}
}

// CompleteJob sends the complete command for job, retrying transient
// broker failures.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, variables interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(variables)
	if err != nil {
		return fmt.Errorf("build complete command for job %d: %w", job.Key, err)
	}
	return Retry(ctx, DefaultRetryConfig, "complete-job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"unavailable",
	"unreachable",
	"deadline exceeded",
	"timeout",
	"resource_exhausted",
	"resource exhausted",
}

func isTransient(err error) bool {
	return containsAny(strings.ToLower(err.Error()), transientPhrases)
}

// brokerError classifies a failed broker command so the job error handler
// can pick retry or BPMN error.
func brokerError(err error, operation string, attempts int) error {
	msg := strings.ToLower(err.Error())
	wrapped := fmt.Errorf("zeebe %s failed after %d attempt(s): %w", operation, attempts, err)

	switch {
	case containsAny(msg, []string{"deadline exceeded", "timeout"}):
		return errors.NewTimeoutError("zeebe", wrapped)
	case strings.Contains(msg, "not found"):
		// the job was completed elsewhere or timed out and was reassigned
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())
	case containsAny(msg, []string{"permission denied", "unauthenticated", "unauthorized"}):
		return errors.NewBusinessRuleError(wrapped.Error(), "broker rejected the worker credentials")
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
