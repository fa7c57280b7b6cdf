package recommendation

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"smartretail/internal/adapters/embeddings"
	"smartretail/internal/domain/catalog"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// DefaultIndexBatch is how many items are embedded per API call
const DefaultIndexBatch = 64

// Indexer backfills embeddings for catalog items that have none
type Indexer struct {
	provider  embeddings.Provider
	repo      catalog.Repository
	batchSize int
	log       *logger.Logger
}

// NewIndexer creates a new catalog indexer
func NewIndexer(provider embeddings.Provider, repo catalog.Repository, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = DefaultIndexBatch
	}
	return &Indexer{
		provider:  provider,
		repo:      repo,
		batchSize: batchSize,
		log:       logger.Get().With("service", "catalog_indexer"),
	}
}

// Run indexes all unembedded items in batches until none remain or the
// context is cancelled. Returns the number of items indexed.
func (ix *Indexer) Run(ctx context.Context) (int, error) {
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		items, err := ix.repo.ListUnindexed(ctx, ix.batchSize)
		if err != nil {
			return total, errors.Wrap(err, "failed to list unindexed items")
		}
		if len(items) == 0 {
			break
		}

		indexed, err := ix.indexBatch(ctx, items)
		total += indexed
		if err != nil {
			return total, err
		}

		ix.log.Infow("indexed batch", "batch", len(items), "total", total)
	}

	return total, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, items []catalog.Item) (int, error) {
	docs := make([]string, len(items))
	for i := range items {
		doc := items[i].Document
		if doc == "" {
			doc = BuildDocument(&items[i])
		}
		docs[i] = doc
	}

	vectors, err := ix.provider.GenerateBatchEmbeddings(ctx, docs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to embed batch")
	}

	indexed := 0
	for i := range items {
		vec := pgvector.NewVector(vectors[i])
		if err := ix.repo.UpdateEmbedding(ctx, items[i].ID, vec); err != nil {
			ix.log.Warnw("failed to store embedding", "item_id", items[i].ID, "error", err)
			continue
		}
		indexed++
	}

	return indexed, nil
}
