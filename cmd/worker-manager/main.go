package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerguide-workers/internal/common/auth"
	"careerguide-workers/internal/common/aws"
	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/database"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/observability"
	"careerguide-workers/internal/common/validation"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/search"
	"careerguide-workers/pkg/registry"

	"go.uber.org/zap"
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

	logOpts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	}
	zapLog := logger.New(logOpts)
	defer zapLog.Sync()
	log := logger.NewStructured(logOpts)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Warn("observability partially disabled", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	ctx := context.Background()

	// --- PostgreSQL ---
	var db *sql.DB
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return database.PingPostgres(ctx, db)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return database.PingRedis(ctx, rdb)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	store := directory.NewStore(db, rdb, time.Duration(cfg.Database.Redis.CacheTTL)*time.Second, log)

	// --- Elasticsearch (optional catalogue) ---
	var catalog *search.Catalog
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		err = retryWithBackoff(func() error {
			return database.PingElasticsearch(ctx, es)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		catalog = search.NewCatalog(es, cfg.Database.Elasticsearch)
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch not configured, catalogue search disabled")
	}

	// --- Events ---
	var events eventPublisher = aws.NoopPublisher{}
	if cfg.Events.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Events.Region, cfg.Events.TopicARN)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		events = sns
		zapLog.Info("Application events enabled", zap.String("topic", cfg.Events.TopicARN))
	}

	// --- Activity registry and input validation ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schemas failed to compile", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  time.Second,
			MaxDelay:   15 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	manager := camunda.NewManager(zeebe.GetClient(), obs, validator, log)
	started := registerWorkers(manager, cfg, dependencies{
		store:   store,
		catalog: catalog,
		tokens:  auth.NewKeycloakClient(cfg.Auth.Keycloak),
		events:  events,
		logger:  log,
	})
	zapLog.Info("Workers registered", zap.Int("count", started), zap.Strings("taskTypes", manager.TaskTypes()))

	srv := newHealthServer(cfg.Observability.MetricsAddress, db, rdb, zeebe)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	manager.Close(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}
