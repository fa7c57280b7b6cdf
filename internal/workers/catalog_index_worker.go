package workers

import (
	"context"
	"time"

	"smartretail/internal/services/recommendation"
)

// CatalogIndexWorker periodically embeds catalog items that were added
// since the last pass, keeping the recommendation index current without a
// manual indexer run
type CatalogIndexWorker struct {
	*BaseWorker
	indexer *recommendation.Indexer
}

// NewCatalogIndexWorker creates a new catalog indexing worker
func NewCatalogIndexWorker(indexer *recommendation.Indexer, interval time.Duration, enabled bool) *CatalogIndexWorker {
	return &CatalogIndexWorker{
		BaseWorker: NewBaseWorker("catalog_indexer", interval, enabled),
		indexer:    indexer,
	}
}

// Run indexes everything currently unembedded
func (w *CatalogIndexWorker) Run(ctx context.Context) error {
	start := time.Now()

	indexed, err := w.indexer.Run(ctx)
	if err != nil {
		w.RecordError(err, time.Since(start))
		return err
	}

	if indexed > 0 {
		w.Log().Infof("Indexed %d new catalog items", indexed)
	}
	w.RecordRun(time.Since(start))
	return nil
}
