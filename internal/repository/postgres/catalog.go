package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"smartretail/internal/domain/catalog"
	"smartretail/pkg/errors"
)

// Compile-time check
var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository using sqlx and pgvector
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// upsertItemQuery updates the item in place on ID conflict. A changed
// document invalidates the stored embedding so the indexer re-embeds the
// item; an unchanged document keeps it.
const upsertItemQuery = `
		INSERT INTO catalog_items (
			id, product_name, brand, gender, category, fabric, pattern, color,
			price, rating_count, discount_percent, document, embedding, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			brand = EXCLUDED.brand,
			gender = EXCLUDED.gender,
			category = EXCLUDED.category,
			fabric = EXCLUDED.fabric,
			pattern = EXCLUDED.pattern,
			color = EXCLUDED.color,
			price = EXCLUDED.price,
			rating_count = EXCLUDED.rating_count,
			discount_percent = EXCLUDED.discount_percent,
			document = EXCLUDED.document,
			embedding = CASE
				WHEN catalog_items.document IS DISTINCT FROM EXCLUDED.document THEN NULL
				ELSE catalog_items.embedding
			END`

// Save inserts the item, updating it in place when the ID already exists
func (r *CatalogRepository) Save(ctx context.Context, item *catalog.Item) error {
	_, err := r.db.ExecContext(ctx, upsertItemQuery,
		item.ID, item.ProductName, item.Brand, item.Gender, item.Category,
		item.Fabric, item.Pattern, item.Color,
		item.Price, item.RatingCount, item.DiscountPercent,
		item.Document, item.Embedding, item.CreatedAt,
	)

	return err
}

// GetByID returns the item with the given ID
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item

	err := r.db.GetContext(ctx, &item, `SELECT * FROM catalog_items WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// SearchSimilar performs semantic search using pgvector cosine distance
func (r *CatalogRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]catalog.ScoredItem, error) {
	var items []catalog.ScoredItem

	query := `
		SELECT *, embedding <=> $1 as distance
		FROM catalog_items
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`

	err := r.db.SelectContext(ctx, &items, query, embedding, limit)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ListUnindexed returns items that have no embedding yet
func (r *CatalogRepository) ListUnindexed(ctx context.Context, limit int) ([]catalog.Item, error) {
	var items []catalog.Item

	query := `
		SELECT * FROM catalog_items
		WHERE embedding IS NULL
		ORDER BY created_at
		LIMIT $1`

	err := r.db.SelectContext(ctx, &items, query, limit)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateEmbedding stores the embedding for an item
func (r *CatalogRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE catalog_items SET embedding = $2 WHERE id = $1`, id, embedding)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

// Count returns the total number of catalog items
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM catalog_items`)
	return count, err
}

// CountIndexed returns the number of items with embeddings
func (r *CatalogRepository) CountIndexed(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM catalog_items WHERE embedding IS NOT NULL`)
	return count, err
}
