package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"smartretail/internal/adapters/config"
	"smartretail/internal/adapters/embeddings"
	"smartretail/internal/adapters/postgres"
	pgrepo "smartretail/internal/repository/postgres"
	"smartretail/internal/services/recommendation"
	"smartretail/pkg/logger"
)

// Backfills embeddings for catalog items that do not have one yet.
// Safe to run repeatedly; already-indexed items are skipped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get().With("component", "indexer")

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgClient.Close()

	provider, err := embeddings.NewProvider(embeddings.Config{
		Provider: embeddings.ProviderType(cfg.Embedding.Provider),
		APIKey:   cfg.Embedding.APIKey,
		Model:    cfg.Embedding.Model,
		Timeout:  cfg.Embedding.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create embedding provider: %v", err)
	}

	repo := pgrepo.NewCatalogRepository(pgClient.DB())
	indexer := recommendation.NewIndexer(provider, repo, cfg.Recommend.IndexBatch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Interrupt received, stopping after current batch...")
		cancel()
	}()

	start := time.Now()
	indexed, err := indexer.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Fatalf("Indexing failed after %s items: %v", humanize.Comma(int64(indexed)), err)
	}

	log.Infof("Indexed %s items in %v", humanize.Comma(int64(indexed)), time.Since(start).Round(time.Millisecond))
}
