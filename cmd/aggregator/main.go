// cmd/aggregator/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"submission-receipts/internal/aggregator"
	"submission-receipts/internal/api"
	"submission-receipts/internal/common/config"
	"submission-receipts/internal/common/database"
	"submission-receipts/internal/common/logger"
	"submission-receipts/internal/history"
	"submission-receipts/internal/store"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting submission receipt aggregator...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the reconciliation pipeline ---
	repo := store.NewRepository(pg.DB)
	appender := history.NewAppender(history.NewRepository(pg.DB), log)

	dispatcher := aggregator.NewDispatcher(
		aggregator.NewCreatedHandler(repo, log),
		aggregator.NewUpdatedHandler(repo, log),
		aggregator.NewCompletedHandler(repo, log),
		aggregator.NewRequestedHandler(repo, log),
		aggregator.NewReceivedHandler(repo, log),
		aggregator.NewAttachmentUpdatedHandler(repo, log),
		appender,
		log,
	)

	// --- Query API and delivery endpoint ---
	cacheTTL := time.Duration(cfg.API.CacheTTLSeconds) * time.Second
	cache := api.NewCache(redis.Client, cacheTTL, log)
	service := api.NewService(repo, cache)

	router := api.NewRouter(service, log)
	api.RegisterIngest(router, dispatcher.Dispatch, log)

	apiServer := &http.Server{
		Addr:    cfg.API.ListenAddress,
		Handler: router,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.API.ListenAddress))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Metrics server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    cfg.API.MetricsAddress,
		Handler: metricsMux,
	}

	go func() {
		zapLog.Info("Metrics server listening", zap.String("address", cfg.API.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	zapLog.Info("Aggregator running",
		zap.String("topic", cfg.Consumer.Topic),
		zap.String("groupId", cfg.Consumer.GroupID),
	)

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
