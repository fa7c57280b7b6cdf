package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/services/pricing"
	"smartretail/pkg/logger"
)

type stubRecs struct {
	total   int
	indexed int
}

func (s *stubRecs) CatalogCount(context.Context) (int, error) { return s.total, nil }
func (s *stubRecs) IndexedCount(context.Context) (int, error) { return s.indexed, nil }

func fallbackRegistry(t *testing.T) *pricing.Registry {
	t.Helper()
	r := pricing.LoadRegistry(pricing.LoadConfig{
		MultiModelDir:    t.TempDir(),
		SingleModelDir:   t.TempDir(),
		BootstrapSeed:    42,
		BootstrapSamples: 100,
	}, logger.Get())
	t.Cleanup(r.Close)
	return r
}

func emptyRegistry() *pricing.Registry {
	return pricing.NewSingleModelRegistry(nil, pricing.TierNone, nil)
}

func TestHandleLiveness(t *testing.T) {
	h := New(logger.Get(), emptyRegistry(), nil, nil, nil, nil, "smartretail", "test")

	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestHandleReadiness_WithModelTier(t *testing.T) {
	h := New(logger.Get(), fallbackRegistry(t), &stubRecs{total: 100, indexed: 80}, nil, nil, nil, "smartretail", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.FallbackModelLoaded)
	assert.Equal(t, "fallback_model", status.ModelTypeInUse)
	assert.Equal(t, 100, status.CatalogItems)
	assert.Equal(t, 80, status.CatalogIndexed)
}

func TestHandleReadiness_NoModels(t *testing.T) {
	h := New(logger.Get(), emptyRegistry(), nil, nil, nil, nil, "smartretail", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "none", status.ModelTypeInUse)
}

func TestHandleHealth_NilStoresSkipChecks(t *testing.T) {
	h := New(logger.Get(), fallbackRegistry(t), nil, nil, nil, nil, "smartretail", "test")

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Empty(t, status.Checks, "nil components produce no checks")
	assert.Equal(t, "smartretail", status.Service)
	assert.Equal(t, "test", status.Version)
}
