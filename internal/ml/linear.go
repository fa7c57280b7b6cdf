package ml

import (
	"smartretail/pkg/errors"
)

// LinearRegressor is a plain linear model over the encoded feature vector.
// It backs the bootstrap tier and any artifact that ships inline weights
// instead of an ONNX graph.
type LinearRegressor struct {
	weights   []float64
	intercept float64
}

// NewLinearRegressor creates a linear regressor from trained parameters
func NewLinearRegressor(weights []float64, intercept float64) *LinearRegressor {
	return &LinearRegressor{weights: weights, intercept: intercept}
}

// Weights returns the model coefficients
func (m *LinearRegressor) Weights() []float64 {
	return m.weights
}

// Intercept returns the model intercept
func (m *LinearRegressor) Intercept() float64 {
	return m.intercept
}

// Run computes the dot product with the encoded vector
func (m *LinearRegressor) Run(vec []float32) (float64, error) {
	if len(vec) != len(m.weights) {
		return 0, errors.Newf("expected %d features, got %d", len(m.weights), len(vec))
	}

	out := m.intercept
	for i, w := range m.weights {
		out += w * float64(vec[i])
	}
	return out, nil
}

// Close is a no-op; linear models hold no native resources
func (m *LinearRegressor) Close() {}

// FitRidge fits a ridge-regularized linear model with full-batch gradient
// descent. Deterministic: zero-initialized weights, fixed iteration count.
// Inputs are expected to be standardized/one-hot encoded already, so a
// fixed learning rate converges reliably.
func FitRidge(x [][]float32, y []float64, epochs int, lr, l2 float64) (*LinearRegressor, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.Newf("bad training shape: %d samples, %d targets", len(x), len(y))
	}

	n := len(x)
	dim := len(x[0])
	weights := make([]float64, dim)
	intercept := 0.0

	gradW := make([]float64, dim)
	for epoch := 0; epoch < epochs; epoch++ {
		for i := range gradW {
			gradW[i] = 0
		}
		gradB := 0.0

		for i := 0; i < n; i++ {
			pred := intercept
			for j := 0; j < dim; j++ {
				pred += weights[j] * float64(x[i][j])
			}
			residual := pred - y[i]
			for j := 0; j < dim; j++ {
				gradW[j] += residual * float64(x[i][j])
			}
			gradB += residual
		}

		scale := lr / float64(n)
		for j := 0; j < dim; j++ {
			weights[j] -= scale * (gradW[j] + l2*weights[j])
		}
		intercept -= scale * gradB
	}

	return &LinearRegressor{weights: weights, intercept: intercept}, nil
}
