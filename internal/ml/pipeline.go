package ml

import (
	"smartretail/internal/domain/product"
	"smartretail/pkg/errors"
)

// Pipeline is the single capability the pricing core needs from a trained
// model: turn a named feature record into a log1p-scale price. Implementations
// never expose their internals beyond this contract.
type Pipeline interface {
	// Predict returns the predicted price on the log1p scale
	Predict(rec product.FeatureRecord) (float64, error)

	// Close releases any native resources held by the model
	Close()
}

// regressor runs inference on an already-encoded dense feature vector
type regressor interface {
	Run(vec []float32) (float64, error)
	Close()
}

// RegressionPipeline pairs a feature encoder with a trained regressor.
// The encoder validates the feature-name contract and produces the dense
// vector in the exact order the regressor was trained on.
type RegressionPipeline struct {
	enc *Encoder
	reg regressor
}

// NewRegressionPipeline creates a pipeline from an encoder and regressor
func NewRegressionPipeline(enc *Encoder, reg regressor) *RegressionPipeline {
	return &RegressionPipeline{enc: enc, reg: reg}
}

// FeatureSet returns the feature names this pipeline expects
func (p *RegressionPipeline) FeatureSet() product.FeatureSet {
	return p.enc.set
}

// Predict encodes the record and runs inference
func (p *RegressionPipeline) Predict(rec product.FeatureRecord) (float64, error) {
	vec, err := p.enc.Encode(rec)
	if err != nil {
		return 0, err
	}

	out, err := p.reg.Run(vec)
	if err != nil {
		return 0, errors.Wrap(err, "inference failed")
	}

	return out, nil
}

// Close releases regressor resources
func (p *RegressionPipeline) Close() {
	if p.reg != nil {
		p.reg.Close()
	}
}
