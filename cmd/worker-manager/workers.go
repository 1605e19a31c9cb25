package main

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"course-recommendation-workers/internal/catalog"
	awsclient "course-recommendation-workers/internal/common/aws"
	"course-recommendation-workers/internal/common/camunda"
	"course-recommendation-workers/internal/common/config"
	"course-recommendation-workers/internal/common/database"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/observability"
	"course-recommendation-workers/internal/recommendation"

	qe "course-recommendation-workers/internal/workers/data-access/query-elasticsearch"
	qp "course-recommendation-workers/internal/workers/data-access/query-postgresql"

	ccr "course-recommendation-workers/internal/workers/recommendation/calculate-course-recommendations"
	dcp "course-recommendation-workers/internal/workers/recommendation/derive-career-pathways"
	nr "course-recommendation-workers/internal/workers/recommendation/notify-recommendations"
	rcr "course-recommendation-workers/internal/workers/recommendation/rank-course-recommendations"
	rrr "course-recommendation-workers/internal/workers/recommendation/record-recommendation-result"
)

type deps struct {
	zeebe  zbc.Client
	engine *recommendation.Engine
	pg     *database.PostgresClient
	redis  *database.RedisClient
	es     *database.ElasticsearchClient // nil when no cluster is configured
	obs    *observability.Observability
	log    logger.Logger
}

// searchCandidateLimit bounds the pathway-filtered catalog pulled from the index.
const searchCandidateLimit = 500

func registerWorkers(ctx context.Context, cfg *config.Config, d deps) ([]*camunda.CamundaWorker, error) {
	rc := cfg.Recommendation
	ttl := config.GetDuration(rc.CacheTTL)

	repo := catalog.NewPostgresRepository(d.pg.DB)
	courses := catalog.NewCachedCourseSource(repo, d.redis.Client, ttl, d.log)
	history := catalog.NewHistoryLoader(catalog.NewCachedLearnerStore(repo, d.redis.Client, ttl, d.log))

	calcDeps := ccr.Dependencies{
		Courses: courses,
		History: history,
		Obs:     d.obs,
	}
	if rc.CatalogSource == "elasticsearch" && d.es != nil {
		index := catalog.NewSearchIndex(d.es.Client, rc.CatalogIndex)
		calcDeps.Search = catalog.NewSearchWithFallback(index, courses, searchCandidateLimit,
			catalog.DefaultBreakerSettings(), d.log)
	}

	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		wc := config.GetWorkerConfig(cfg, taskType)
		if !wc.Enabled {
			d.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		w := camunda.NewWorker(d.zeebe, taskType, camunda.WorkerOptions{
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, handler, d.log, d.obs)
		w.Start()
		workers = append(workers, w)
	}
	timeout := func(taskType string) int {
		return config.GetWorkerConfig(cfg, taskType).Timeout
	}

	// --- Recommendation Workers ---
	{
		c := dcp.LoadConfig()
		c.Timeout = config.GetDuration(timeout(dcp.TaskType))
		start(dcp.TaskType, dcp.NewHandler(c, d.engine, d.log))
	}
	{
		c := ccr.LoadConfig()
		c.Timeout = config.GetDuration(timeout(ccr.TaskType))
		c.DefaultLimit = rc.DefaultLimit
		c.DefaultStrategy = rc.DefaultStrategy
		start(ccr.TaskType, ccr.NewHandler(c, d.engine, calcDeps, d.log))
	}
	{
		c := rcr.LoadConfig()
		c.Timeout = config.GetDuration(timeout(rcr.TaskType))
		c.DefaultLimit = rc.DefaultLimit
		start(rcr.TaskType, rcr.NewHandler(c, d.log))
	}
	{
		c := rrr.LoadConfig()
		c.Timeout = config.GetDuration(timeout(rrr.TaskType))
		start(rrr.TaskType, rrr.NewHandler(c, repo, d.redis.Client, d.log))
	}
	if config.IsWorkerEnabled(cfg, nr.TaskType) {
		handler, err := newNotifyHandler(ctx, cfg, repo, d.log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", nr.TaskType, err)
		}
		start(nr.TaskType, handler)
	}

	// --- Data Access Workers ---
	{
		c := qp.LoadConfig()
		c.Timeout = config.GetDuration(timeout(qp.TaskType))
		start(qp.TaskType, qp.NewHandler(c, repo, d.log))
	}
	if d.es != nil {
		c := qe.LoadConfig()
		c.Timeout = config.GetDuration(timeout(qe.TaskType))
		c.DefaultIndex = rc.CatalogIndex
		start(qe.TaskType, qe.NewHandler(c, d.es.Client, d.log))
	} else {
		d.log.Warn("no elasticsearch configured, search worker not started", map[string]interface{}{
			"taskType": qe.TaskType,
		})
	}

	return workers, nil
}

func newNotifyHandler(ctx context.Context, cfg *config.Config, contacts nr.ContactStore, log logger.Logger) (*nr.Handler, error) {
	nc := cfg.Notifications
	c := nr.LoadConfig()
	c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, nr.TaskType).Timeout)
	c.EmailEnabled = nc.Email.Enabled
	c.SMSEnabled = nc.SMS.Enabled
	c.PriorityThreshold = nc.SMS.PriorityThreshold

	var (
		sesClient nr.SESService
		snsClient nr.SNSService
	)
	if nc.Email.Enabled {
		client, err := awsclient.NewSESClient(ctx, nc.AWS.Region, nc.Email.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		sesClient = client
	}
	if nc.SMS.Enabled {
		client, err := awsclient.NewSNSClient(ctx, nc.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		snsClient = client
	}

	return nr.NewHandler(c, contacts, sesClient, snsClient, log), nil
}
