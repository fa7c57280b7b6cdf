package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
)

// Item is one catalog product, optionally carrying the embedding of its
// descriptive document for similarity search
type Item struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	ProductName     string           `db:"product_name" json:"product_name"`
	Brand           string           `db:"brand" json:"brand"`
	Gender          string           `db:"gender" json:"gender"`
	Category        string           `db:"category" json:"category"`
	Fabric          string           `db:"fabric" json:"fabric,omitempty"`
	Pattern         string           `db:"pattern" json:"pattern,omitempty"`
	Color           string           `db:"color" json:"color,omitempty"`
	Price           decimal.Decimal  `db:"price" json:"price"`
	RatingCount     int              `db:"rating_count" json:"rating_count"`
	DiscountPercent float64          `db:"discount_percent" json:"discount_percent"`
	Document        string           `db:"document" json:"document"`
	Embedding       *pgvector.Vector `db:"embedding" json:"-"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// ScoredItem is an item returned from similarity search with its cosine
// distance to the query
type ScoredItem struct {
	Item
	Distance float64 `db:"distance" json:"distance"`
}

// Score converts cosine distance to a similarity score in [0, 1]
func (s ScoredItem) Score() float64 {
	return 1 - s.Distance
}
