package recommendation

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"smartretail/internal/adapters/embeddings"
	"smartretail/internal/domain/catalog"
	"smartretail/internal/metrics"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count
const DefaultLimit = 5

// MaxLimit caps the number of recommendations per request
const MaxLimit = 50

// Recommendation is one recommended product with its similarity score
type Recommendation struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Score       float64 `json:"score"`
}

// Service finds catalog items semantically similar to a free-text query
type Service struct {
	provider     embeddings.Provider
	repo         catalog.Repository
	defaultLimit int
	maxLimit     int
	log          *logger.Logger
}

// NewService creates a new recommendation service. Non-positive limits fall
// back to DefaultLimit and MaxLimit.
func NewService(provider embeddings.Provider, repo catalog.Repository, defaultLimit, maxLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	return &Service{
		provider:     provider,
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          logger.Get().With("service", "recommendation"),
	}
}

// Recommend returns up to limit catalog items most similar to the query text
func (s *Service) Recommend(ctx context.Context, query string, limit int) ([]Recommendation, error) {
	start := time.Now()

	recs, err := s.recommend(ctx, query, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecommendationsTotal.WithLabelValues(status).Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	return recs, err
}

func (s *Service) recommend(ctx context.Context, query string, limit int) ([]Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query cannot be empty")
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	vector, err := s.provider.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRecsUnavailable, "embedding query failed: %v", err)
	}

	items, err := s.repo.SearchSimilar(ctx, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRecsUnavailable, "similarity search failed: %v", err)
	}

	recs := make([]Recommendation, 0, len(items))
	for _, item := range items {
		recs = append(recs, Recommendation{
			ID:          item.ID.String(),
			ProductName: item.ProductName,
			Brand:       item.Brand,
			Category:    item.Category,
			Price:       item.Price.StringFixed(2),
			Score:       item.Score(),
		})
	}

	s.log.Debugw("recommendations generated", "query_length", len(query), "count", len(recs))
	return recs, nil
}

// IndexedCount returns how many catalog items are searchable
func (s *Service) IndexedCount(ctx context.Context) (int, error) {
	return s.repo.CountIndexed(ctx)
}

// CatalogCount returns the total number of catalog items
func (s *Service) CatalogCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// BuildDocument renders the text that gets embedded for a catalog item.
// Indexing and querying must agree on this shape.
func BuildDocument(item *catalog.Item) string {
	parts := []string{
		item.ProductName,
		item.Brand,
		item.Gender,
		item.Category,
	}
	if item.Fabric != "" {
		parts = append(parts, item.Fabric)
	}
	if item.Pattern != "" {
		parts = append(parts, item.Pattern)
	}
	if item.Color != "" {
		parts = append(parts, item.Color)
	}
	return strings.Join(parts, " ")
}
