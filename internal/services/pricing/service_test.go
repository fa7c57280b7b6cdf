package pricing

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/domain/product"
	"smartretail/internal/ml"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// constantModel builds a model over the given feature set whose prediction
// is always the log1p of price, regardless of input.
func constantModel(t *testing.T, set product.FeatureSet, price float64) *RegisteredModel {
	t.Helper()

	categories := make(map[string][]string, len(set.Categorical))
	for _, name := range set.Categorical {
		categories[name] = []string{}
	}
	scaler := ml.ScalerParams{
		Mean:  make([]float64, len(set.Numerical)),
		Scale: make([]float64, len(set.Numerical)),
	}

	enc, err := ml.NewEncoder(set, categories, scaler)
	require.NoError(t, err)

	weights := make([]float64, enc.Dim())
	reg := ml.NewLinearRegressor(weights, math.Log1p(price))

	return &RegisteredModel{
		Pipeline: ml.NewRegressionPipeline(enc, reg),
		Features: set,
	}
}

func typedModel(t *testing.T, pt product.Type, price float64) *RegisteredModel {
	return constantModel(t, product.FeatureSetFor(pt), price)
}

func multiService(t *testing.T, models map[product.Type]*RegisteredModel, opts ...Option) *Service {
	registry := NewMultiModelRegistry(models, nil, nil)
	return NewService(registry, logger.Get(), opts...)
}

func jewelryDescriptor() *product.Descriptor {
	return &product.Descriptor{
		ProductName: "Women 22kt Gold Plated Necklace",
		Brand:       "Zaveri Pearls",
		Gender:      product.GenderWomen,
		Category:    "jewellery",
		RatingCount: 120,
	}
}

func apparelDescriptor() *product.Descriptor {
	return &product.Descriptor{
		ProductName: "Men Blue Slim Fit Jeans",
		Brand:       "Roadster",
		Gender:      product.GenderMen,
		Category:    "jeans",
		RatingCount: 800,
	}
}

func TestService_PredictMulti(t *testing.T) {
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 4500),
	})

	pred, err := svc.Predict(context.Background(), jewelryDescriptor())
	require.NoError(t, err)

	assert.InDelta(t, 4500.0, pred.Price, 0.01)
	assert.Equal(t, product.TypeJewelry, pred.ProductType)
	assert.Equal(t, TierFastMultiModel, pred.ModelType)
	assert.Equal(t, ConfidenceHigh, pred.Confidence)
}

func TestService_PredictMulti_ClampsToBand(t *testing.T) {
	tests := []struct {
		name     string
		rawPrice float64
		want     float64
	}{
		{"below jewelry minimum", 5, 100},
		{"above jewelry maximum", 5e6, 200000},
		{"inside band untouched", 4500, 4500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := multiService(t, map[product.Type]*RegisteredModel{
				product.TypeJewelry: typedModel(t, product.TypeJewelry, tt.rawPrice),
			})

			pred, err := svc.Predict(context.Background(), jewelryDescriptor())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, pred.Price, 0.01)
		})
	}
}

func TestService_PredictMulti_ConfidenceByType(t *testing.T) {
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 2000),
		product.TypeWatches: typedModel(t, product.TypeWatches, 3000),
		product.TypeApparel: typedModel(t, product.TypeApparel, 900),
	})

	pred, err := svc.Predict(context.Background(), apparelDescriptor())
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, pred.Confidence)

	watch := &product.Descriptor{
		ProductName: "Titan Quartz Analog Watch",
		Brand:       "Titan",
		Gender:      product.GenderMen,
		Category:    "watches",
	}
	pred, err = svc.Predict(context.Background(), watch)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceHigh, pred.Confidence)
}

// Extraction must follow the registered model's declared feature set, not
// the type's default one. An artifact trained on a reduced set still gets a
// matching record.
func TestService_PredictMulti_UsesModelDeclaredFeatures(t *testing.T) {
	reduced := product.FeatureSet{
		Categorical: []string{"brand", "gender"},
		Numerical:   []string{"rating_count", "karat"},
	}
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: constantModel(t, reduced, 4500),
	})

	pred, err := svc.Predict(context.Background(), jewelryDescriptor())
	require.NoError(t, err)
	assert.InDelta(t, 4500.0, pred.Price, 0.01)
}

func TestService_PredictMulti_MissingModel(t *testing.T) {
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 2000),
	})

	_, err := svc.Predict(context.Background(), apparelDescriptor())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrModelNotFound))
}

func TestService_PredictGeneral_NoClamp(t *testing.T) {
	model := constantModel(t, product.UniformFeatureSet(), 5)
	registry := NewSingleModelRegistry(model, TierOriginalSingle, nil)
	svc := NewService(registry, logger.Get())

	pred, err := svc.Predict(context.Background(), apparelDescriptor())
	require.NoError(t, err)

	// Below the apparel band minimum, left as-is on the general tier
	assert.InDelta(t, 5.0, pred.Price, 0.01)
	assert.Equal(t, product.Type(""), pred.ProductType)
	assert.Equal(t, TierOriginalSingle, pred.ModelType)
	assert.Equal(t, ConfidenceMedium, pred.Confidence)
}

func TestService_PredictFallbackTier(t *testing.T) {
	model := constantModel(t, product.UniformFeatureSet(), 1200)
	registry := NewSingleModelRegistry(model, TierFallback, nil)
	svc := NewService(registry, logger.Get())

	pred, err := svc.Predict(context.Background(), apparelDescriptor())
	require.NoError(t, err)
	assert.Equal(t, TierFallback, pred.ModelType)
}

func TestService_PredictWithNoCapability(t *testing.T) {
	registry := NewSingleModelRegistry(nil, TierNone, nil)
	svc := NewService(registry, logger.Get())

	_, err := svc.Predict(context.Background(), apparelDescriptor())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoModelsLoaded))
}

func TestService_PredictScenarios(t *testing.T) {
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 50),
		product.TypeApparel: typedModel(t, product.TypeApparel, 30000),
	})

	gold := &product.Descriptor{
		ProductName:     "Men 18kt Gold Ring",
		Brand:           "tanishq",
		Gender:          product.GenderMen,
		Category:        "ring",
		Color:           "gold",
		RatingCount:     150,
		DiscountPercent: 10,
	}
	pred, err := svc.Predict(context.Background(), gold)
	require.NoError(t, err)
	assert.Equal(t, product.TypeJewelry, pred.ProductType)
	assert.GreaterOrEqual(t, pred.Price, 100.0)
	assert.LessOrEqual(t, pred.Price, 200000.0)

	tee := &product.Descriptor{
		ProductName:     "Women Cotton Casual T-Shirt",
		Brand:           "roadster",
		Gender:          product.GenderWomen,
		Category:        "tshirt",
		Fabric:          "cotton",
		Pattern:         "solid",
		Color:           "blue",
		RatingCount:     500,
		DiscountPercent: 30,
	}
	pred, err = svc.Predict(context.Background(), tee)
	require.NoError(t, err)
	assert.Equal(t, product.TypeApparel, pred.ProductType)
	assert.GreaterOrEqual(t, pred.Price, 50.0)
	assert.LessOrEqual(t, pred.Price, 10000.0)
}

func TestService_PredictIsIdempotent(t *testing.T) {
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 4500),
	})

	first, err := svc.Predict(context.Background(), jewelryDescriptor())
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), jewelryDescriptor())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*Prediction
	hits    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*Prediction)}
}

func (c *memCache) Get(_ context.Context, key string) (*Prediction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pred, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return pred, ok
}

func (c *memCache) Set(_ context.Context, key string, pred *Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = pred
	c.sets++
}

func TestService_PredictCached(t *testing.T) {
	cache := newMemCache()
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 4500),
	}, WithCache(cache))

	ctx := context.Background()

	first, err := svc.PredictCached(ctx, jewelryDescriptor())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.PredictCached(ctx, jewelryDescriptor())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "hit must not re-store")
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)

	// A different descriptor gets its own key
	_, err = svc.PredictCached(ctx, apparelDescriptor())
	require.Error(t, err, "no apparel model registered")
	assert.Equal(t, 1, cache.sets, "failed predictions are never cached")
}

func TestService_PredictCached_ErrorsBypassCache(t *testing.T) {
	cache := newMemCache()
	registry := NewSingleModelRegistry(nil, TierNone, nil)
	svc := NewService(registry, logger.Get(), WithCache(cache))

	_, err := svc.PredictCached(context.Background(), apparelDescriptor())
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

type captureRecorder struct {
	recorded chan *Prediction
}

func (r *captureRecorder) Record(_ context.Context, _ *product.Descriptor, pred *Prediction) {
	r.recorded <- pred
}

func TestService_RecordersReceivePredictions(t *testing.T) {
	rec := &captureRecorder{recorded: make(chan *Prediction, 1)}
	svc := multiService(t, map[product.Type]*RegisteredModel{
		product.TypeJewelry: typedModel(t, product.TypeJewelry, 4500),
	}, WithRecorder(rec))

	pred, err := svc.Predict(context.Background(), jewelryDescriptor())
	require.NoError(t, err)

	select {
	case got := <-rec.recorded:
		assert.Equal(t, pred, got)
	case <-time.After(2 * time.Second):
		t.Fatal("recorder was not invoked")
	}
}

func TestService_RecordersNotInvokedOnError(t *testing.T) {
	rec := &captureRecorder{recorded: make(chan *Prediction, 1)}
	registry := NewSingleModelRegistry(nil, TierNone, nil)
	svc := NewService(registry, logger.Get(), WithRecorder(rec))

	_, err := svc.Predict(context.Background(), apparelDescriptor())
	require.Error(t, err)

	select {
	case <-rec.recorded:
		t.Fatal("recorder must not fire for failed predictions")
	case <-time.After(100 * time.Millisecond):
	}
}
