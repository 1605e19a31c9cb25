package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/metrics"
	"course-recommendation-workers/internal/common/observability"
)

// JobHandler reports the job outcome to the broker itself; the returned error
// only feeds logs and metrics.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions are the per-task polling settings from the workers section.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	obs      *observability.Observability
	handler  JobHandler
	taskType string
}

func NewWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler JobHandler,
	log logger.Logger,
	obs *observability.Observability,
) *CamundaWorker {
	w := &CamundaWorker{
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
		obs:      obs,
		handler:  handler,
		taskType: taskType,
	}

	step := client.NewJobWorker().
		JobType(taskType).
		Handler(w.handle).
		MaxJobsActive(opts.MaxJobsActive)
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	if opts.PollInterval > 0 {
		step = step.PollInterval(opts.PollInterval)
	}
	w.worker = step.Open()
	return w
}

// handle wraps the task handler with a span and the job metrics.
func (w *CamundaWorker) handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	ctx, span := w.obs.StartSpan(context.Background(), w.taskType,
		attribute.Int64("job.key", job.Key),
		attribute.Int64("process.instance.key", job.ProcessInstanceKey),
	)
	defer span.End()

	err := w.handler.Handle(client, job)

	status, errorCode := "completed", ""
	if err != nil {
		status = "failed"
		errorCode = string(errors.Normalize(err).Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, errorCode)
		w.logger.Warn("handler returned error", map[string]interface{}{
			"jobKey":    job.Key,
			"errorCode": errorCode,
		})
	}

	metrics.ObserveJob(w.taskType, started, errorCode)
	if w.obs != nil {
		w.obs.RecordJobProcessed(ctx, w.taskType, status)
		w.obs.RecordJobDuration(ctx, w.taskType, time.Since(started), status)
	}
}

func (w *CamundaWorker) TaskType() string { return w.taskType }

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", nil)
}

// Stop closes the job worker and waits for in-flight jobs to drain. The
// shared Zeebe client is closed by its owner.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()

	done := make(chan struct{})
	go func() {
		w.worker.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not drain before shutdown deadline", nil)
	}
}
