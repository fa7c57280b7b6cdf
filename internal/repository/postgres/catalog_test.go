package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The upsert must drop a stale embedding whenever the document text changes,
// otherwise ListUnindexed never picks the item up for re-embedding.
func TestUpsertQuery_InvalidatesEmbeddingOnDocumentChange(t *testing.T) {
	assert.Contains(t, upsertItemQuery, "document IS DISTINCT FROM EXCLUDED.document THEN NULL")
	assert.Contains(t, upsertItemQuery, "ELSE catalog_items.embedding")

	// The insert path still stores the embedding the caller provided
	assert.True(t, strings.Contains(upsertItemQuery, "embedding, created_at"))
}
