// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"maturity-workers/internal/common/camunda"
	"maturity-workers/internal/common/config"
	"maturity-workers/internal/common/database"
	"maturity-workers/internal/common/health"
	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/observability"
	"maturity-workers/internal/store"

	ac "maturity-workers/internal/workers/maturity/aggregate-cohort"
	rml "maturity-workers/internal/workers/maturity/resolve-maturity-level"
	sa "maturity-workers/internal/workers/maturity/score-assessment"
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
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	defer obs.Shutdown()

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
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	configStore := store.NewConfigStore(pg.DB, rdb.Client, cfg.Scoring.ConfigCacheTTL(), log)
	summaryCache := store.NewSummaryCache(rdb.Client, cfg.Scoring.SummaryCacheTTL())
	defaults := cfg.Scoring.ToModel()

	// --- Register Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker

	if config.IsWorkerEnabled(cfg, sa.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sa.TaskType)
		handler := sa.NewHandler(
			&sa.Config{
				Timeout:  config.GetDuration(wcfg.Timeout),
				Defaults: defaults,
			},
			configStore, summaryCache, log,
		)
		workers = append(workers, camunda.StartWorker(client, sa.TaskType, wcfg, obs.Instrument(sa.TaskType, handler.Handle), zapLog))
	}

	if config.IsWorkerEnabled(cfg, ac.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ac.TaskType)
		handler := ac.NewHandler(
			&ac.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
				Areas:   cfg.Scoring.Areas,
			},
			summaryCache, log,
		)
		workers = append(workers, camunda.StartWorker(client, ac.TaskType, wcfg, obs.Instrument(ac.TaskType, handler.Handle), zapLog))
	}

	if config.IsWorkerEnabled(cfg, rml.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, rml.TaskType)
		handler := rml.NewHandler(
			&rml.Config{
				Timeout:  config.GetDuration(wcfg.Timeout),
				Defaults: defaults,
			},
			log,
		)
		workers = append(workers, camunda.StartWorker(client, rml.TaskType, wcfg, obs.Instrument(rml.TaskType, handler.Handle), zapLog))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	router := health.NewRouter(health.Options{
		Checks: map[string]health.Check{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
		},
		Metrics: promhttp.Handler(),
	})

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	camunda.StopWorkers(workers, 30*time.Second, zapLog)

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
