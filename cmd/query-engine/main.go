// cmd/query-engine/main.go
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

	"airport-query-engine/internal/cache"
	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/common/database"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/common/observability"
	"airport-query-engine/internal/engine/registry"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/events"
	"airport-query-engine/internal/handlers/builtin"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/knowledge/postgres"
	"airport-query-engine/internal/knowledge/search"
	"airport-query-engine/internal/oracle"
	"airport-query-engine/internal/reasoning"
	"airport-query-engine/internal/transport/httpapi"
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
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting query engine...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	// --- Knowledge stores ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(context.Background())
	}, 5, 2*time.Second, zapLog, "postgres connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	readiness := []httpapi.Option{
		httpapi.WithReadinessCheck("postgres", pg.Ready),
	}

	var stands knowledge.StandService = postgres.NewStandStore(pg.DB)
	if cfg.Database.Elasticsearch.Enabled() {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(context.Background())
		}, 3, 2*time.Second, zapLog, "elasticsearch connection")
		if err != nil {
			// Search is optional; stand lookups still work from postgres.
			zapLog.Warn("elasticsearch unavailable, free-text and proximity search disabled", zap.Error(err))
		} else {
			stands = knowledge.WithIndex(stands, search.NewStandIndex(es.Client, es.StandIndex))
			readiness = append(readiness, httpapi.WithReadinessCheck("elasticsearch", es.Ping))
		}
	}

	var responseCache cache.Port = cache.Noop{}
	if cfg.Database.Redis.Enabled() {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(context.Background())
		}, 3, 2*time.Second, zapLog, "redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, response cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			responseCache = cache.NewRedisPort(rc.Client, cache.WithKeyPrefix(rc.KeyPrefix))
			readiness = append(readiness, httpapi.WithReadinessCheck("redis", rc.Ping))
		}
	}

	bundle, err := services.Locate(services.Defaults(), map[string]interface{}{
		services.KeyStands:      stands,
		services.KeyReference:   postgres.NewReferenceStore(pg.DB),
		services.KeyMaintenance: postgres.NewMaintenanceStore(pg.DB),
		services.KeyCache:       responseCache,
		services.KeyLogger:      log,
	})
	if err != nil {
		zapLog.Fatal("service bundle", zap.Error(err))
	}

	// --- Reasoning ---
	var reasoner reasoning.Oracle
	if cfg.Oracle.Enabled() {
		reasoner = oracle.NewClient(oracle.LoadConfig(cfg.Oracle), log.With(map[string]interface{}{"component": "oracle"}))
	} else {
		zapLog.Warn("oracle not configured, complex queries will be rejected")
	}
	engine := reasoning.NewEngine(
		reasoning.NewPlanner(reasoner, cfg.Engine.MaxPlanSteps, log, reasoning.WithSourceNames(bundle.Sources.Names())),
		reasoning.NewExecutor(reasoner, bundle.Sources, log),
		log,
	)

	// --- Registry ---
	regOpts := []registry.Option{registry.WithReasoner(engine), registry.WithObserver(obs)}
	if cfg.Events.Enabled() {
		conn, err := events.Connect(cfg.Events, log)
		if err != nil {
			zapLog.Warn("events server unavailable, query events disabled", zap.Error(err))
		} else {
			defer conn.Drain()
			regOpts = append(regOpts, registry.WithObserver(events.NewPublisher(conn, cfg.Events.SubjectPrefix, log)))
			zapLog.Info("publishing query events", zap.String("prefix", cfg.Events.SubjectPrefix))
		}
	}
	reg := registry.New(bundle, registry.Options{
		EnableQueryCache: cfg.Engine.QueryCacheEnabled(),
		MaxPlanSteps:     cfg.Engine.MaxPlanSteps,
		DefaultCacheTTL:  time.Duration(cfg.Engine.DefaultCacheTTLSeconds) * time.Second,
	}, regOpts...)

	registered, err := builtin.Register(reg, cfg, log)
	if err != nil {
		zapLog.Fatal("handler registration failed", zap.Error(err))
	}
	reg.Seal()

	stats := reg.Stats()
	zapLog.Info("registry sealed",
		zap.Strings("handlers", registered),
		zap.Int("intents", stats.TotalIntents),
	)

	// --- HTTP ---
	api := httpapi.NewServer(reg, log.With(map[string]interface{}{"component": "http"}),
		append(readiness,
			httpapi.WithQueryTimeout(config.GetDuration(cfg.Engine.QueryTimeout)),
			httpapi.WithCatalog(reg, cfg.App.Version),
		)...,
	)
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      api.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := reg.Close(); err != nil {
		zapLog.Error("Error closing registry", zap.Error(err))
	}

	zapLog.Info("Query engine stopped")
}
