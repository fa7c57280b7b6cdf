package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"smartretail/internal/adapters/clickhouse"
	"smartretail/internal/adapters/config"
	"smartretail/internal/adapters/embeddings"
	"smartretail/internal/adapters/errors/noop"
	"smartretail/internal/adapters/errors/sentry"
	"smartretail/internal/adapters/kafka"
	"smartretail/internal/adapters/postgres"
	redisadapter "smartretail/internal/adapters/redis"
	"smartretail/internal/api"
	"smartretail/internal/api/health"
	"smartretail/internal/events"
	"smartretail/internal/metrics"
	chrepo "smartretail/internal/repository/clickhouse"
	pgrepo "smartretail/internal/repository/postgres"
	redisrepo "smartretail/internal/repository/redis"
	"smartretail/internal/services/pricing"
	"smartretail/internal/services/recommendation"
	"smartretail/internal/services/trends"
	"smartretail/internal/workers"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Model registry: the artifact tiers are resolved once at startup
	registry := pricing.LoadRegistry(pricing.LoadConfig{
		MultiModelDir:    filepath.Join(cfg.Models.ArtifactsDir, cfg.Models.MultiModelDir),
		SingleModelDir:   filepath.Join(cfg.Models.ArtifactsDir, cfg.Models.SingleModelDir),
		BootstrapSeed:    cfg.Models.BootstrapSeed,
		BootstrapSamples: cfg.Models.BootstrapSample,
	}, log)
	defer registry.Close()
	log.Infof("Model registry ready, active tier: %s", registry.Tier())

	pricingOpts := []pricing.Option{}
	var shutdownHooks []func(context.Context)

	// Optional Redis prediction cache
	var redisClient *redisadapter.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisadapter.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, prediction cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			pricingOpts = append(pricingOpts,
				pricing.WithCache(redisrepo.NewPredictionCache(redisClient.Client(), cfg.Redis.CacheTTL)))
			log.Info("Prediction cache enabled")
		}
	}

	// Optional Kafka prediction events
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
		pricingOpts = append(pricingOpts,
			pricing.WithRecorder(events.NewPredictionPublisher(producer)))
		log.Info("Prediction event stream enabled")
	}

	// Optional ClickHouse analytics log
	var chClient *clickhouse.Client
	if cfg.ClickHouse.Enabled {
		chClient, err = clickhouse.NewClient(cfg.ClickHouse)
		if err != nil {
			log.Warnf("ClickHouse unavailable, prediction log disabled: %v", err)
			chClient = nil
		} else {
			defer chClient.Close()
			predictionLog := chrepo.NewPredictionLog(chClient.Conn())
			predictionLog.Start(ctx)
			shutdownHooks = append(shutdownHooks, func(ctx context.Context) {
				if err := predictionLog.Stop(ctx); err != nil {
					log.Warnf("Prediction log stop failed: %v", err)
				}
			})
			pricingOpts = append(pricingOpts, pricing.WithRecorder(predictionLog))
			log.Info("Prediction analytics log enabled")
		}
	}

	pricingService := pricing.NewService(registry, log, pricingOpts...)

	// Recommendations need Postgres and an embedding provider; without them
	// the service runs in pricing-only mode
	var recService *recommendation.Service
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Warnf("Postgres unavailable, recommendations disabled: %v", err)
	} else {
		defer pgClient.Close()

		catalogRepo := pgrepo.NewCatalogRepository(pgClient.DB())
		if err := metrics.NewCatalogCollector(log, pgClient.DB()).Register(); err != nil {
			log.Warnf("Catalog collector registration failed: %v", err)
		}

		provider, err := embeddings.NewProvider(embeddings.Config{
			Provider: embeddings.ProviderType(cfg.Embedding.Provider),
			APIKey:   cfg.Embedding.APIKey,
			Model:    cfg.Embedding.Model,
			Timeout:  cfg.Embedding.Timeout,
		})
		if err != nil {
			log.Warnf("Embedding provider unavailable, recommendations disabled: %v", err)
		} else {
			recService = recommendation.NewService(provider, catalogRepo, cfg.Recommend.DefaultK, cfg.Recommend.MaxK)
			if count, err := recService.IndexedCount(ctx); err == nil {
				log.Infof("Recommendations ready, %s items indexed", humanize.Comma(int64(count)))
			}

			// Keep the index current as new catalog items arrive
			indexer := recommendation.NewIndexer(provider, catalogRepo, cfg.Recommend.IndexBatch)
			scheduler := workers.NewScheduler()
			scheduler.RegisterWorker(workers.NewCatalogIndexWorker(
				indexer, cfg.Recommend.ReindexInterval, cfg.Recommend.ReindexEnabled))
			if err := scheduler.Start(ctx); err != nil {
				log.Warnf("Worker scheduler failed to start: %v", err)
			} else {
				shutdownHooks = append(shutdownHooks, func(context.Context) {
					if err := scheduler.Stop(); err != nil {
						log.Warnf("Worker scheduler stop failed: %v", err)
					}
				})
			}
		}
	}

	handlers := api.Handlers{
		Pricing:   api.NewPricingHandler(pricingService),
		Recommend: api.NewRecommendHandler(recService),
		Trends:    api.NewTrendsHandler(trends.NewService()),
		Health:    buildHealthHandler(cfg, log, registry, recService, pgClient, chClient, redisClient),
	}

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.Server.Port,
		ServiceName:    cfg.App.Name,
		Version:        version,
		RequestsPerSec: cfg.Server.RequestsPerSec,
		RateBurst:      cfg.Server.RateBurst,
	}, handlers, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	waitForShutdown(cfg, cancel, server, shutdownHooks, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func buildHealthHandler(
	cfg *config.Config,
	log *logger.Logger,
	registry *pricing.Registry,
	recService *recommendation.Service,
	pgClient *postgres.Client,
	chClient *clickhouse.Client,
	redisClient *redisadapter.Client,
) *health.Handler {
	var recs health.RecommendationStatus
	if recService != nil {
		recs = recService
	}

	var db *sqlx.DB
	if pgClient != nil {
		db = pgClient.DB()
	}
	var ch driver.Conn
	if chClient != nil {
		ch = chClient.Conn()
	}
	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.Client()
	}

	return health.New(log, registry, recs, db, ch, rdb, cfg.App.Name, version)
}

func waitForShutdown(
	cfg *config.Config,
	cancel context.CancelFunc,
	server *api.Server,
	hooks []func(context.Context),
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Server shutdown failed: %v", err)
	}

	for _, hook := range hooks {
		hook(shutdownCtx)
	}

	cancel()

	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
