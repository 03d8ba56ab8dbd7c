// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rpa-match-workers/internal/common/config"
	"rpa-match-workers/internal/common/database"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/common/observability"
	"rpa-match-workers/internal/matching"
	"rpa-match-workers/internal/repository"
	"rpa-match-workers/pkg/registry"

	cms "rpa-match-workers/internal/workers/matching/calculate-match-score"
	fm "rpa-match-workers/internal/workers/matching/find-matches"
	ppf "rpa-match-workers/internal/workers/matching/parse-profile-filters"
	qc "rpa-match-workers/internal/workers/matching/query-candidates"
	rm "rpa-match-workers/internal/workers/matching/rank-matches"
	vmr "rpa-match-workers/internal/workers/matching/validate-match-request"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
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
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Activity registry (documents the deployed task types) ---
	if reg, err := registry.LoadRegistry(cfg.Matching.RegistryPath); err != nil {
		zapLog.Warn("activity registry not loaded", zap.Error(err))
	} else {
		zapLog.Info("activity registry loaded",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)),
		)
	}

	// --- Shared matching components ---
	scoringCfg := matching.DefaultConfig()
	scorer := matching.NewScorer(scoringCfg)
	candidateRepo := repository.NewCandidateRepository(
		pg.DB,
		redisClient.Client,
		config.GetDuration(cfg.Matching.CandidateCacheTTL),
		cfg.Matching.MaxCandidates,
		log,
	)

	// --- Register Matching Workers ---
	if config.IsWorkerEnabled(cfg, vmr.TaskType) {
		handler := vmr.NewHandler(vmr.LoadConfig(), log)
		startWorker(zeebeClient, vmr.TaskType, config.GetWorkerConfig(cfg, vmr.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, ppf.TaskType) {
		handler := ppf.NewHandler(ppf.LoadConfig(), scoringCfg, log)
		startWorker(zeebeClient, ppf.TaskType, config.GetWorkerConfig(cfg, ppf.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, qc.TaskType) {
		handler := qc.NewHandler(qc.LoadConfig(), candidateRepo, log)
		startWorker(zeebeClient, qc.TaskType, config.GetWorkerConfig(cfg, qc.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, cms.TaskType) {
		handler := cms.NewHandler(cms.LoadConfig(), scorer, log)
		startWorker(zeebeClient, cms.TaskType, config.GetWorkerConfig(cfg, cms.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, rm.TaskType) {
		handler := rm.NewHandler(rm.LoadConfig(), log)
		startWorker(zeebeClient, rm.TaskType, config.GetWorkerConfig(cfg, rm.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, fm.TaskType) {
		handler := fm.NewHandler(fm.LoadConfig(), candidateRepo, scoringCfg, log)
		startWorker(zeebeClient, fm.TaskType, config.GetWorkerConfig(cfg, fm.TaskType), handler.Handle, zapLog)
	}

	zapLog.Info("All matching workers registered")

	// --- Health / Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
