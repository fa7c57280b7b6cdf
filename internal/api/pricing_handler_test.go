package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/services/pricing"
	"smartretail/pkg/logger"
)

func bootstrapPricingService(t *testing.T) *pricing.Service {
	t.Helper()
	registry := pricing.LoadRegistry(pricing.LoadConfig{
		MultiModelDir:    t.TempDir(),
		SingleModelDir:   t.TempDir(),
		BootstrapSeed:    42,
		BootstrapSamples: 200,
	}, logger.Get())
	t.Cleanup(registry.Close)
	return pricing.NewService(registry, logger.Get())
}

func unavailablePricingService() *pricing.Service {
	registry := pricing.NewSingleModelRegistry(nil, pricing.TierNone, nil)
	return pricing.NewService(registry, logger.Get())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestPricingHandler_Predict(t *testing.T) {
	h := NewPricingHandler(bootstrapPricingService(t))

	rec := postJSON(t, h.HandlePredict, "/predict_price", `{
		"product_name": "Men Blue Slim Fit Jeans",
		"brand": "Roadster",
		"gender": "men",
		"category": "jeans",
		"rating_count": 1250,
		"discount_percent": 40
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var pred struct {
		Price      float64 `json:"predicted_price"`
		ModelType  string  `json:"model_type"`
		Confidence string  `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Greater(t, pred.Price, 0.0)
	assert.Equal(t, "fallback_model", pred.ModelType)
	assert.Equal(t, "Medium", pred.Confidence)
}

func TestPricingHandler_Predict_InvalidJSON(t *testing.T) {
	h := NewPricingHandler(bootstrapPricingService(t))

	rec := postJSON(t, h.HandlePredict, "/predict_price", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricingHandler_Predict_ValidationDetails(t *testing.T) {
	h := NewPricingHandler(bootstrapPricingService(t))

	rec := postJSON(t, h.HandlePredict, "/predict_price", `{
		"product_name": "",
		"brand": "Roadster",
		"gender": "martian",
		"category": "jeans",
		"discount_percent": 120
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)

	fields := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"product_name", "gender", "discount_percent"}, fields)
}

func TestPricingHandler_Predict_MethodNotAllowed(t *testing.T) {
	h := NewPricingHandler(bootstrapPricingService(t))

	req := httptest.NewRequest(http.MethodGet, "/predict_price", nil)
	rec := httptest.NewRecorder()
	h.HandlePredict(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPricingHandler_Predict_NoModels(t *testing.T) {
	h := NewPricingHandler(unavailablePricingService())

	rec := postJSON(t, h.HandlePredict, "/predict_price", `{
		"product_name": "Men Blue Slim Fit Jeans",
		"brand": "Roadster",
		"gender": "men",
		"category": "jeans"
	}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
