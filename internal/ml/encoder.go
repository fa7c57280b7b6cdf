package ml

import (
	"sort"
	"strings"

	"smartretail/internal/domain/product"
	"smartretail/pkg/errors"
)

// ScalerParams holds standardization parameters for the numerical feature
// group, indexed in declared numerical-feature order
type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Encoder turns a named FeatureRecord into the dense vector layout a
// regressor was trained on: one-hot encoded categoricals first, then
// standardized numericals, both in declared order. Unknown categorical
// values encode to all zeros, matching the training-time encoder's
// ignore-unknown behavior.
type Encoder struct {
	set        product.FeatureSet
	categories map[string][]string
	scaler     ScalerParams
	dim        int
}

// NewEncoder builds an encoder and validates the parameter shapes against
// the declared feature lists
func NewEncoder(set product.FeatureSet, categories map[string][]string, scaler ScalerParams) (*Encoder, error) {
	dim := 0
	for _, name := range set.Categorical {
		vocab, ok := categories[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "no categories for feature %q", name)
		}
		dim += len(vocab)
	}

	if len(scaler.Mean) != len(set.Numerical) || len(scaler.Scale) != len(set.Numerical) {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt,
			"scaler has %d/%d params for %d numerical features",
			len(scaler.Mean), len(scaler.Scale), len(set.Numerical))
	}
	dim += len(set.Numerical)

	return &Encoder{
		set:        set,
		categories: categories,
		scaler:     scaler,
		dim:        dim,
	}, nil
}

// Dim returns the encoded vector length
func (e *Encoder) Dim() int {
	return e.dim
}

// Encode validates the feature-name contract and produces the dense vector.
// Contract violations name the offending features so drift between training
// and serving surfaces immediately instead of deep inside inference.
func (e *Encoder) Encode(rec product.FeatureRecord) ([]float32, error) {
	if err := e.checkContract(rec); err != nil {
		return nil, err
	}

	vec := make([]float32, 0, e.dim)

	for _, name := range e.set.Categorical {
		val := rec[name]
		if val.Kind != product.KindCategorical {
			return nil, errors.Wrapf(errors.ErrFeatureContract, "feature %q must be categorical", name)
		}
		for _, cat := range e.categories[name] {
			if val.Text == cat {
				vec = append(vec, 1)
			} else {
				vec = append(vec, 0)
			}
		}
	}

	for i, name := range e.set.Numerical {
		val := rec[name]
		if val.Kind != product.KindNumeric {
			return nil, errors.Wrapf(errors.ErrFeatureContract, "feature %q must be numeric", name)
		}
		scale := e.scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		vec = append(vec, float32((val.Number-e.scaler.Mean[i])/scale))
	}

	return vec, nil
}

// checkContract verifies the record carries exactly the declared feature
// names, no missing and no extra
func (e *Encoder) checkContract(rec product.FeatureRecord) error {
	var missing, extra []string

	for _, name := range e.set.Categorical {
		if _, ok := rec[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range e.set.Numerical {
		if _, ok := rec[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range rec {
		if !e.set.Contains(name) {
			extra = append(extra, name)
		}
	}

	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		return errors.Wrapf(errors.ErrFeatureContract,
			"missing=[%s] extra=[%s]",
			strings.Join(missing, ","), strings.Join(extra, ","))
	}

	return nil
}
