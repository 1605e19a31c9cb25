// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"course-recommendation-workers/internal/common/camunda"
	"course-recommendation-workers/internal/common/config"
	"course-recommendation-workers/internal/common/database"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/common/observability"
	"course-recommendation-workers/internal/recommendation"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		TracingEnabled: cfg.Observability.TracingEnabled,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	engine, err := buildEngine(cfg.Recommendation)
	if err != nil {
		zapLog.Fatal("scoring engine setup failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	pg, err := connectPostgres(ctx, cfg.Database.Postgres, 15, 2*time.Second, zapLog)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		created, err := es.EnsureIndex(ctx, cfg.Recommendation.CatalogIndex, database.CourseIndexMapping)
		if err != nil {
			zapLog.Fatal("course index setup failed", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully",
			zap.String("index", cfg.Recommendation.CatalogIndex),
			zap.Bool("indexCreated", created),
		)
	}

	workers, err := registerWorkers(ctx, cfg, deps{
		zeebe:  zeebe.GetClient(),
		engine: engine,
		pg:     pg,
		redis:  rdb,
		es:     es,
		obs:    obs,
		log:    log,
	})
	if err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := newHealthServer(cfg.Observability.MetricsPort, readinessChecks{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
		"redis":    rdb.Ping,
	})
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		zapLog.Error("Error closing Redis", zap.Error(err))
	}
	if err := pg.Close(); err != nil {
		zapLog.Error("Error closing PostgreSQL", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildEngine applies the configured weights, thresholds and tables on top of
// the stock scoring configuration.
func buildEngine(rc config.RecommendationConfig) (*recommendation.Engine, error) {
	tables, err := recommendation.LoadTables(rc.TablesPath)
	if err != nil {
		return nil, apperrors.NewScoringTablesInvalidError(err)
	}

	ec := recommendation.DefaultConfig()
	ec.Weights = recommendation.Weights{
		CareerPathway: rc.Weights.CareerPathway,
		SkillGap:      rc.Weights.SkillGap,
		Level:         rc.Weights.Level,
		Prerequisite:  rc.Weights.Prerequisite,
		UserHistory:   rc.Weights.UserHistory,
	}
	ec.Thresholds = recommendation.Thresholds{
		Medium: rc.Thresholds.Medium,
		High:   rc.Thresholds.High,
	}
	if rc.DefaultLimit > 0 {
		ec.DefaultLimit = rc.DefaultLimit
	}

	engine, err := recommendation.NewEngine(tables, ec)
	if err != nil {
		return nil, apperrors.NewScoringTablesInvalidError(err)
	}
	return engine, nil
}

// connectPostgres opens the pool and pings it until it answers or attempts
// run out.
func connectPostgres(ctx context.Context, cfg config.PostgresConfig, attempts int, delay time.Duration, log *zap.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		if pg != nil {
			pg.Close()
		}
		pg, err = database.NewPostgres(cfg)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, attempts, delay, log, "PostgreSQL connection")
	if err != nil {
		if pg != nil {
			pg.Close()
		}
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	return pg, nil
}
