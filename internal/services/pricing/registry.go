package pricing

import (
	"smartretail/internal/domain/product"
	"smartretail/internal/ml"
	"smartretail/pkg/logger"
)

// Tier identifies which fallback level of model availability is serving
// predictions
type Tier string

const (
	// TierFastMultiModel routes through per-type specialized models
	TierFastMultiModel Tier = "fast_multi_model"

	// TierOriginalSingle is one general model without type routing
	TierOriginalSingle Tier = "original_single_model"

	// TierFallback is the synthetic bootstrap model trained at startup
	TierFallback Tier = "fallback_model"

	// TierNone means no pricing capability at all
	TierNone Tier = "none"
)

// String returns string representation
func (t Tier) String() string {
	return string(t)
}

// RegisteredModel pairs a trained pipeline with the feature names it was
// trained on. Never mutated after load.
type RegisteredModel struct {
	Pipeline ml.Pipeline
	Features product.FeatureSet
}

// Status reports per-tier load outcomes for the health surface
type Status struct {
	FastModelsLoaded    bool `json:"fast_models_loaded"`
	OriginalModelLoaded bool `json:"original_model_loaded"`
	FallbackModelLoaded bool `json:"fallback_model_loaded"`
	ActiveTier          Tier `json:"model_type_in_use"`
}

// Registry holds the resolved model tier. Built fully before being
// published to request handlers; immutable afterwards, so the read path
// needs no locks.
type Registry struct {
	tier        Tier
	models      map[product.Type]*RegisteredModel
	general     *RegisteredModel
	prestige    product.PrestigeTable
	constraints product.ConstraintPolicy
	status      Status
}

// LoadConfig locates the tier artifacts and bootstrap parameters
type LoadConfig struct {
	MultiModelDir    string
	SingleModelDir   string
	BootstrapSeed    int64
	BootstrapSamples int
}

// LoadRegistry resolves the active tier by attempting each level in strict
// priority order and stopping at the first success. Artifact failures are
// logged and fall through; a registry is always returned, possibly with no
// capability (TierNone) if even bootstrap training fails.
func LoadRegistry(cfg LoadConfig, log *logger.Logger) *Registry {
	r := &Registry{
		tier:        TierNone,
		constraints: product.DefaultConstraints(),
		prestige:    product.PrestigeTable{},
	}

	if bundle, err := ml.LoadBundle(cfg.MultiModelDir); err == nil {
		r.adoptMultiModel(bundle, log)
		r.status.FastModelsLoaded = true
		r.tier = TierFastMultiModel
		log.Infof("Fast multi-model system loaded (%d product types)", len(r.models))
	} else {
		log.Warnf("Could not load fast models from %s: %v", cfg.MultiModelDir, err)
	}

	if r.tier == TierNone {
		if bundle, err := ml.LoadBundle(cfg.SingleModelDir); err == nil {
			r.adoptSingleModel(bundle)
			r.status.OriginalModelLoaded = true
			r.tier = TierOriginalSingle
			log.Info("Original single model loaded as fallback")
		} else {
			log.Warnf("Could not load original model from %s: %v", cfg.SingleModelDir, err)
		}
	}

	if r.tier == TierNone {
		if bundle, err := ml.TrainBootstrap(cfg.BootstrapSeed, cfg.BootstrapSamples); err == nil {
			r.adoptSingleModel(bundle)
			r.status.FallbackModelLoaded = true
			r.tier = TierFallback
			log.Info("Bootstrap model trained on synthetic data")
		} else {
			log.Errorf("Could not create bootstrap model: %v", err)
		}
	}

	if r.tier == TierNone {
		log.Error("No price prediction models loaded")
	}

	r.status.ActiveTier = r.tier
	return r
}

// adoptMultiModel takes ownership of a multi-model bundle
func (r *Registry) adoptMultiModel(bundle *ml.Bundle, log *logger.Logger) {
	r.models = make(map[product.Type]*RegisteredModel, len(bundle.Pipelines))
	for key, pipeline := range bundle.Pipelines {
		ptype := product.Type(key)
		if !ptype.Valid() {
			log.Warnf("Skipping model for unknown product type %q", key)
			pipeline.Close()
			continue
		}
		r.models[ptype] = &RegisteredModel{
			Pipeline: pipeline,
			Features: pipeline.FeatureSet(),
		}
	}

	r.adoptShared(bundle)
}

// adoptSingleModel takes ownership of a one-model bundle
func (r *Registry) adoptSingleModel(bundle *ml.Bundle) {
	if pipeline, ok := bundle.Pipelines[ml.DefaultModelKey]; ok {
		r.general = &RegisteredModel{
			Pipeline: pipeline,
			Features: pipeline.FeatureSet(),
		}
	}

	r.adoptShared(bundle)
}

// adoptShared copies bundle-level data: prestige table and constraint
// overrides layered over the domain defaults
func (r *Registry) adoptShared(bundle *ml.Bundle) {
	if bundle.BrandPrestige != nil {
		r.prestige = bundle.BrandPrestige
	}
	for key, band := range bundle.Constraints {
		ptype := product.Type(key)
		if ptype.Valid() {
			r.constraints[ptype] = band
		}
	}
}

// NewMultiModelRegistry builds a registry directly from in-memory models.
// Used by tests and embedders that construct pipelines without artifacts.
func NewMultiModelRegistry(models map[product.Type]*RegisteredModel, prestige product.PrestigeTable, constraints product.ConstraintPolicy) *Registry {
	if prestige == nil {
		prestige = product.PrestigeTable{}
	}
	if constraints == nil {
		constraints = product.DefaultConstraints()
	}
	return &Registry{
		tier:        TierFastMultiModel,
		models:      models,
		prestige:    prestige,
		constraints: constraints,
		status:      Status{FastModelsLoaded: true, ActiveTier: TierFastMultiModel},
	}
}

// NewSingleModelRegistry builds a registry around one general model for the
// given non-routing tier
func NewSingleModelRegistry(model *RegisteredModel, tier Tier, prestige product.PrestigeTable) *Registry {
	if prestige == nil {
		prestige = product.PrestigeTable{}
	}
	status := Status{ActiveTier: tier}
	switch tier {
	case TierOriginalSingle:
		status.OriginalModelLoaded = true
	case TierFallback:
		status.FallbackModelLoaded = true
	}
	return &Registry{
		tier:        tier,
		general:     model,
		prestige:    prestige,
		constraints: product.DefaultConstraints(),
		status:      status,
	}
}

// Tier returns the resolved active tier
func (r *Registry) Tier() Tier {
	return r.tier
}

// ModelFor returns the specialized model for a product type (multi tier)
func (r *Registry) ModelFor(t product.Type) (*RegisteredModel, bool) {
	m, ok := r.models[t]
	return m, ok
}

// General returns the single general model (single and bootstrap tiers)
func (r *Registry) General() *RegisteredModel {
	return r.general
}

// Prestige returns the frozen brand prestige table
func (r *Registry) Prestige() product.PrestigeTable {
	return r.prestige
}

// Constraints returns the effective price constraint policy
func (r *Registry) Constraints() product.ConstraintPolicy {
	return r.constraints
}

// Status reports tier load outcomes
func (r *Registry) Status() Status {
	return r.status
}

// Close releases every loaded pipeline
func (r *Registry) Close() {
	for _, m := range r.models {
		m.Pipeline.Close()
	}
	if r.general != nil {
		r.general.Pipeline.Close()
	}
}
