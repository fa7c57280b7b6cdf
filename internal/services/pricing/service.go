package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"

	"smartretail/internal/domain/product"
	"smartretail/internal/metrics"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// Confidence is the coarse reliability signal attached to predictions.
// Jewelry and watch models are trained on tighter distributions, so those
// types report High.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
)

// Prediction is the structured pricing result
type Prediction struct {
	Price       float64      `json:"predicted_price"`
	ProductType product.Type `json:"product_type,omitempty"`
	ModelType   Tier         `json:"model_type"`
	Confidence  Confidence   `json:"confidence"`
}

// Cache stores predictions keyed by descriptor hash. Optional; nil disables
// caching.
type Cache interface {
	Get(ctx context.Context, key string) (*Prediction, bool)
	Set(ctx context.Context, key string, pred *Prediction)
}

// Recorder receives every successful prediction for side channels
// (event stream, analytics log). Implementations must tolerate being called
// concurrently.
type Recorder interface {
	Record(ctx context.Context, desc *product.Descriptor, pred *Prediction)
}

// Service orchestrates classification, feature extraction, model dispatch
// and constraint clamping. Stateless per request; all shared state is the
// immutable registry.
type Service struct {
	registry  *Registry
	extractor *Extractor
	cache     Cache
	recorders []Recorder
	log       *logger.Logger
}

// Option configures optional service collaborators
type Option func(*Service)

// WithCache attaches a prediction cache
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRecorder attaches a prediction recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorders = append(s.recorders, r) }
}

// NewService creates a prediction service over a resolved registry
func NewService(registry *Registry, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		extractor: NewExtractor(registry.Prestige()),
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the resolved registry for the health surface
func (s *Service) Registry() *Registry {
	return s.registry
}

// Predict prices a validated descriptor using the active tier.
// Read-only against the registry; safe for concurrent use.
func (s *Service) Predict(ctx context.Context, desc *product.Descriptor) (*Prediction, error) {
	start := time.Now()

	pred, err := s.predict(desc)

	tier := s.registry.Tier().String()
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues(tier, "error").Inc()
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues(tier, "success").Inc()
	metrics.PredictionDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())

	s.record(ctx, desc, pred)
	return pred, nil
}

func (s *Service) predict(desc *product.Descriptor) (*Prediction, error) {
	switch s.registry.Tier() {
	case TierFastMultiModel:
		return s.predictMulti(desc)
	case TierOriginalSingle, TierFallback:
		return s.predictGeneral(desc)
	default:
		return nil, errors.ErrNoModelsLoaded
	}
}

// predictMulti routes through the specialized model for the classified type
// and clamps the result into the type's price band
func (s *Service) predictMulti(desc *product.Descriptor) (*Prediction, error) {
	ptype := ClassifyProduct(desc)

	model, ok := s.registry.ModelFor(ptype)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModelNotFound, "%s", ptype)
	}

	rec := s.extractor.ExtractFor(desc, model.Features)

	logPrice, err := model.Pipeline.Predict(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "predict %s", ptype)
	}

	price := math.Expm1(logPrice)
	price = s.registry.Constraints().BandFor(ptype).Clamp(price)

	return &Prediction{
		Price:       round2(price),
		ProductType: ptype,
		ModelType:   TierFastMultiModel,
		Confidence:  confidenceFor(ptype),
	}, nil
}

// predictGeneral skips type routing: uniform features, no clamp
func (s *Service) predictGeneral(desc *product.Descriptor) (*Prediction, error) {
	model := s.registry.General()
	if model == nil {
		return nil, errors.ErrNoModelsLoaded
	}

	rec := s.extractor.ExtractUniform(desc)

	logPrice, err := model.Pipeline.Predict(rec)
	if err != nil {
		return nil, errors.Wrap(err, "predict with general model")
	}

	return &Prediction{
		Price:      round2(math.Expm1(logPrice)),
		ModelType:  s.registry.Tier(),
		Confidence: ConfidenceMedium,
	}, nil
}

// PredictCached wraps Predict with the optional cache. Identical
// descriptors against an unchanged registry always produce identical
// prices, so cached entries never go stale within a process lifetime.
func (s *Service) PredictCached(ctx context.Context, desc *product.Descriptor) (*Prediction, error) {
	if s.cache == nil {
		return s.Predict(ctx, desc)
	}

	key := descriptorKey(desc)
	if pred, ok := s.cache.Get(ctx, key); ok {
		metrics.PredictionCacheHits.Inc()
		return pred, nil
	}

	pred, err := s.Predict(ctx, desc)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, pred)
	return pred, nil
}

// record fans out to side channels without blocking the response
func (s *Service) record(ctx context.Context, desc *product.Descriptor, pred *Prediction) {
	if len(s.recorders) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, r := range s.recorders {
		go r.Record(detached, desc, pred)
	}
}

// confidenceFor maps product types to the coarse confidence signal
func confidenceFor(t product.Type) Confidence {
	if t == product.TypeJewelry || t == product.TypeWatches {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// descriptorKey derives a stable cache key from the descriptor content
func descriptorKey(desc *product.Descriptor) string {
	data, _ := json.Marshal(desc)
	sum := sha256.Sum256(data)
	return "price:pred:" + hex.EncodeToString(sum[:])
}
