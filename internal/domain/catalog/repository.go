package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Repository provides persistence and vector search over catalog items
type Repository interface {
	// Save inserts the item or updates it in place when the ID already exists
	Save(ctx context.Context, item *Item) error

	// GetByID returns the item with the given ID
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// SearchSimilar returns up to limit items ordered by cosine distance
	// to the query embedding, nearest first
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]ScoredItem, error)

	// ListUnindexed returns up to limit items that have no embedding yet
	ListUnindexed(ctx context.Context, limit int) ([]Item, error)

	// UpdateEmbedding stores the embedding for an item
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error

	// Count returns the total number of catalog items
	Count(ctx context.Context) (int, error)

	// CountIndexed returns the number of items that have embeddings
	CountIndexed(ctx context.Context) (int, error)
}
