package ml

import (
	"encoding/json"
	"os"
	"path/filepath"

	"smartretail/internal/domain/product"
	"smartretail/pkg/errors"
)

// ManifestFile is the name of the artifact manifest inside a tier directory
const ManifestFile = "manifest.json"

// DefaultModelKey keys the single pipeline in a one-model artifact
const DefaultModelKey = "default"

// ModelSpec describes one trained pipeline as plain data. No class identity
// is embedded in the artifact; serving rebuilds the pipeline purely from
// these fields.
type ModelSpec struct {
	// Kind selects the regressor backend: "onnx" or "linear"
	Kind string `json:"kind"`

	// ModelFile is the ONNX graph path relative to the manifest (onnx kind)
	ModelFile string `json:"model_file,omitempty"`

	// Weights and Intercept are inline coefficients (linear kind)
	Weights   []float64 `json:"weights,omitempty"`
	Intercept float64   `json:"intercept,omitempty"`

	// Ordered feature-name lists the pipeline was trained with
	CategoricalFeatures []string `json:"categorical_features"`
	NumericalFeatures   []string `json:"numerical_features"`

	// One-hot vocabularies per categorical feature, in encoding order
	Categories map[string][]string `json:"categories"`

	// Standardization parameters for the numerical group
	Scaler ScalerParams `json:"scaler"`
}

// FeatureSet returns the declared feature lists as a domain FeatureSet
func (s ModelSpec) FeatureSet() product.FeatureSet {
	return product.FeatureSet{
		Categorical: s.CategoricalFeatures,
		Numerical:   s.NumericalFeatures,
	}
}

// Manifest is the serialized bundle for one model tier: the per-type model
// specs, the brand prestige table, and optional constraint overrides
type Manifest struct {
	Version              int                          `json:"version"`
	KeywordConfigVersion int                          `json:"keyword_config_version"`
	BrandPrestige        product.PrestigeTable        `json:"brand_prestige_scores"`
	Constraints          map[string]product.PriceBand `json:"price_constraints,omitempty"`
	Models               map[string]ModelSpec         `json:"models"`
}

// Bundle is a fully-loaded tier: manifest data plus ready pipelines keyed
// the same way as the manifest's models
type Bundle struct {
	Manifest
	Pipelines map[string]*RegressionPipeline
}

// Close releases every pipeline in the bundle
func (b *Bundle) Close() {
	for _, p := range b.Pipelines {
		p.Close()
	}
}

// LoadBundle reads a tier directory and rebuilds its pipelines. Any
// deserialization or shape problem is reported as ErrArtifactCorrupt so the
// registry can fall through to the next tier.
func LoadBundle(dir string) (*Bundle, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest in %s", dir)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "parse manifest: %v", err)
	}

	if len(manifest.Models) == 0 {
		return nil, errors.Wrap(errors.ErrArtifactCorrupt, "manifest declares no models")
	}

	// Refuse artifacts produced against a different keyword/threshold
	// revision: feature engineering would silently disagree with training.
	if manifest.KeywordConfigVersion != 0 && manifest.KeywordConfigVersion != product.KeywordConfigVersion {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt,
			"keyword config version %d does not match serving version %d",
			manifest.KeywordConfigVersion, product.KeywordConfigVersion)
	}

	bundle := &Bundle{
		Manifest:  manifest,
		Pipelines: make(map[string]*RegressionPipeline, len(manifest.Models)),
	}

	for key, spec := range manifest.Models {
		pipeline, err := buildPipeline(dir, spec)
		if err != nil {
			bundle.Close()
			return nil, errors.Wrapf(err, "build pipeline %q", key)
		}
		bundle.Pipelines[key] = pipeline
	}

	return bundle, nil
}

// buildPipeline assembles encoder and regressor from a plain-data spec
func buildPipeline(dir string, spec ModelSpec) (*RegressionPipeline, error) {
	enc, err := NewEncoder(spec.FeatureSet(), spec.Categories, spec.Scaler)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case "linear":
		if len(spec.Weights) != enc.Dim() {
			return nil, errors.Wrapf(errors.ErrArtifactCorrupt,
				"linear model has %d weights for %d encoded features",
				len(spec.Weights), enc.Dim())
		}
		return NewRegressionPipeline(enc, NewLinearRegressor(spec.Weights, spec.Intercept)), nil

	case "onnx":
		if spec.ModelFile == "" {
			return nil, errors.Wrap(errors.ErrArtifactCorrupt, "onnx model spec has no model_file")
		}
		reg, err := LoadONNXRegressor(filepath.Join(dir, spec.ModelFile), enc.Dim())
		if err != nil {
			return nil, err
		}
		return NewRegressionPipeline(enc, reg), nil

	default:
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "unknown model kind %q", spec.Kind)
	}
}
