package ml

import (
	onnxruntime "github.com/yalue/onnxruntime_go"

	"smartretail/pkg/errors"
)

// ONNXRegressor wraps an ONNX Runtime session holding an exported
// regression graph. The graph takes the already-encoded dense feature
// vector and emits a single log1p-scale price.
type ONNXRegressor struct {
	session   *onnxruntime.DynamicAdvancedSession
	inputName string
	dim       int
}

// LoadONNXRegressor loads a regression model from file.
// Input: "input" (float32, shape [1, dim])
// Output: "output" (float32, shape [1, 1])
func LoadONNXRegressor(modelPath string, dim int) (*ONNXRegressor, error) {
	// Initialize ONNX runtime environment (only once)
	err := onnxruntime.InitializeEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"}, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ONNX model")
	}

	return &ONNXRegressor{
		session:   session,
		inputName: "input",
		dim:       dim,
	}, nil
}

// Run executes the regression graph on the encoded feature vector
func (m *ONNXRegressor) Run(vec []float32) (float64, error) {
	if m.session == nil {
		return 0, errors.New("model session is nil")
	}
	if len(vec) != m.dim {
		return 0, errors.Newf("expected %d features, got %d", m.dim, len(vec))
	}

	inputShape := onnxruntime.NewShape(1, int64(len(vec)))
	inputTensor, err := onnxruntime.NewTensor(inputShape, vec)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create input tensor")
	}
	defer inputTensor.Destroy()

	output := make([]float32, 1)
	outputShape := onnxruntime.NewShape(1, 1)
	outputTensor, err := onnxruntime.NewTensor(outputShape, output)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create output tensor")
	}
	defer outputTensor.Destroy()

	inputs := []onnxruntime.Value{inputTensor}
	outputs := []onnxruntime.Value{outputTensor}
	if err := m.session.Run(inputs, outputs); err != nil {
		return 0, errors.Wrap(err, "inference failed")
	}

	return float64(output[0]), nil
}

// Close cleans up the ONNX session
func (m *ONNXRegressor) Close() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
}
