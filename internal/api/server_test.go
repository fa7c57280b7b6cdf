package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/api/health"
	"smartretail/internal/services/pricing"
	"smartretail/internal/services/trends"
	"smartretail/pkg/logger"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	registry := pricing.LoadRegistry(pricing.LoadConfig{
		MultiModelDir:    t.TempDir(),
		SingleModelDir:   t.TempDir(),
		BootstrapSeed:    42,
		BootstrapSamples: 200,
	}, logger.Get())
	t.Cleanup(registry.Close)

	handlers := Handlers{
		Pricing:   NewPricingHandler(pricing.NewService(registry, logger.Get())),
		Recommend: NewRecommendHandler(nil),
		Trends:    NewTrendsHandler(trends.NewService()),
		Health:    health.New(logger.Get(), registry, nil, nil, nil, nil, "smartretail", "test"),
	}

	return NewServer(ServerConfig{ServiceName: "smartretail", Version: "test"}, handlers, logger.Get())
}

func serveGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthzRoute(t *testing.T) {
	srv := testServer(t)

	rec := serveGet(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

func TestServer_RootServiceInfo(t *testing.T) {
	srv := testServer(t)

	rec := serveGet(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"smartretail"`)
}

func TestServer_UnknownPath(t *testing.T) {
	srv := testServer(t)

	rec := serveGet(t, srv, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
