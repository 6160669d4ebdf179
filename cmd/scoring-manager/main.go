// cmd/scoring-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruit-scoring/internal/backend"
	"recruit-scoring/internal/cache"
	"recruit-scoring/internal/common/camunda"
	"recruit-scoring/internal/common/config"
	"recruit-scoring/internal/common/database"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/observability"
	"recruit-scoring/internal/scoring"
	"recruit-scoring/internal/service"
	"recruit-scoring/pkg/registry"

	ccs "recruit-scoring/internal/workers/scoring/calculate-candidate-score"
	gsc "recruit-scoring/internal/workers/scoring/get-scoring-config"
	ras "recruit-scoring/internal/workers/scoring/recalculate-all-scores"
	rsc "recruit-scoring/internal/workers/scoring/reset-scoring-config"
	ssd "recruit-scoring/internal/workers/scoring/summarize-score-distribution"
	usc "recruit-scoring/internal/workers/scoring/update-scoring-config"
)

// readinessCheck is one dependency probed by /ready.
type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scoring manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("backendMode", cfg.Backend.Mode),
		zap.String("cacheBackend", cfg.Scoring.CacheBackend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	checks := []readinessCheck{{name: "zeebe", check: zeebe.HealthCheck}}

	// --- Backend ---
	be, closeBackend, check, err := buildBackend(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backend init failed", zap.Error(err))
	}
	defer closeBackend()
	if check != nil {
		checks = append(checks, *check)
	}

	// --- Config cache ---
	configCache, closeCache, check, err := buildCache(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("config cache init failed", zap.Error(err))
	}
	defer closeCache()
	if check != nil {
		checks = append(checks, *check)
	}

	svc := service.New(service.Options{
		Backend:       be,
		Cache:         configCache,
		Engine:        scoring.NewEngine(),
		Logger:        log,
		TopCandidates: cfg.Scoring.TopCandidates,
	})

	workers := registerWorkers(zeebe, cfg, svc, log, obs)
	log.Info("scoring workers registered", map[string]interface{}{"count": len(workers)})
	checkCatalogue(registry.DefaultPath, log)

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newMux(checks, cfg.Metrics.Enabled),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("scoring manager stopped", nil)
}

// buildBackend selects the REST client or the direct database store.
func buildBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (backend.Backend, func(), *readinessCheck, error) {
	if cfg.Backend.Mode != config.BackendModePostgres {
		client := backend.NewRESTClient(cfg.Backend.BaseURL, cfg.Backend.Token, config.GetDuration(cfg.Backend.Timeout), log)
		return client, func() {}, nil, nil
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, nil, err
	}
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "postgres connect", func(ctx context.Context) error {
		return pg.Ping(ctx)
	})
	if err != nil {
		_ = pg.Close()
		return nil, nil, nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, nil, err
	}
	log.Info("postgres connected", map[string]interface{}{"host": cfg.Database.Postgres.Host})

	closeFn := func() { _ = pg.Close() }
	return backend.NewPostgresStore(pg.DB, log), closeFn, &readinessCheck{name: "postgres", check: pg.Ping}, nil
}

// buildCache returns the in-process cache unless redis is configured.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.ConfigCache, func(), *readinessCheck, error) {
	ttl := cfg.Scoring.CacheTTL()
	if cfg.Scoring.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemoryCache(ttl), func() {}, nil, nil
	}

	rc := database.NewRedis(cfg.Database.Redis)
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, nil, err
	}
	log.Info("redis connected", map[string]interface{}{"address": cfg.Database.Redis.Address})

	closeFn := func() { _ = rc.Close() }
	return cache.NewRedisCache(rc.Client, ttl), closeFn, &readinessCheck{name: "redis", check: rc.Ping}, nil
}

func registerWorkers(
	zeebe *camunda.Client,
	cfg *config.Config,
	svc *service.Service,
	log logger.Logger,
	obs *observability.Observability,
) []worker.JobWorker {
	client := zeebe.GetClient()
	var started []worker.JobWorker
	start := func(taskType string, handler worker.JobHandler) {
		if jw := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, log, obs); jw != nil {
			started = append(started, jw)
		}
	}

	wc := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(cfg, taskType) }

	start(ccs.TaskType, ccs.NewHandler(ccs.LoadConfig(wc(ccs.TaskType)), svc, log, obs).Handle)
	start(gsc.TaskType, gsc.NewHandler(gsc.LoadConfig(wc(gsc.TaskType)), svc, log, obs).Handle)
	start(usc.TaskType, usc.NewHandler(usc.LoadConfig(wc(usc.TaskType)), svc, log, obs).Handle)
	start(rsc.TaskType, rsc.NewHandler(rsc.LoadConfig(wc(rsc.TaskType)), svc, log, obs).Handle)
	start(ras.TaskType, ras.NewHandler(ras.LoadConfig(wc(ras.TaskType)), svc, log, obs).Handle)
	start(ssd.TaskType, ssd.NewHandler(ssd.LoadConfig(wc(ssd.TaskType), cfg.Scoring.TopCandidates), svc, log, obs).Handle)

	return started
}

// servedTaskTypes lists every task type registerWorkers can open.
var servedTaskTypes = []string{ccs.TaskType, gsc.TaskType, usc.TaskType, rsc.TaskType, ras.TaskType, ssd.TaskType}

// uncatalogued returns the served task types the activity registry does not list.
func uncatalogued(reg *registry.ActivityRegistry) []string {
	var missing []string
	for _, taskType := range servedTaskTypes {
		if _, ok := reg.Find(taskType); !ok {
			missing = append(missing, taskType)
		}
	}
	return missing
}

func checkCatalogue(path string, log logger.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", map[string]interface{}{"path": path, "error": err})
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", map[string]interface{}{"path": path, "error": err})
		return
	}
	if missing := uncatalogued(reg); len(missing) > 0 {
		log.Warn("task types missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}
}

func newMux(checks []readinessCheck, exposeMetrics bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures := map[string]string{}
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				failures[c.name] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not ready", "failures": failures})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	})
	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
