package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"smartretail/internal/services/pricing"
	"smartretail/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// RecommendationStatus reports how much of the catalog is searchable
type RecommendationStatus interface {
	CatalogCount(ctx context.Context) (int, error)
	IndexedCount(ctx context.Context) (int, error)
}

// Handler provides health check endpoints. Postgres, ClickHouse, Redis and
// the recommendation status are all optional; nil components are skipped.
type Handler struct {
	log         *logger.Logger
	registry    *pricing.Registry
	recs        RecommendationStatus
	postgres    *sqlx.DB
	clickhouse  driver.Conn
	redis       *redis.Client
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler
func New(
	log *logger.Logger,
	registry *pricing.Registry,
	recs RecommendationStatus,
	postgres *sqlx.DB,
	clickhouse driver.Conn,
	redis *redis.Client,
	serviceName string,
	version string,
) *Handler {
	return &Handler{
		log:         log,
		registry:    registry,
		recs:        recs,
		postgres:    postgres,
		clickhouse:  clickhouse,
		redis:       redis,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status              string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service             string                     `json:"service"`
	Version             string                     `json:"version"`
	Uptime              string                     `json:"uptime"`
	Timestamp           string                     `json:"timestamp"`
	FastModelsLoaded    bool                       `json:"fast_models_loaded"`
	OriginalModelLoaded bool                       `json:"original_model_loaded"`
	FallbackModelLoaded bool                       `json:"fallback_model_loaded"`
	ModelTypeInUse      string                     `json:"model_type_in_use"`
	CatalogItems        int                        `json:"catalog_items,omitempty"`
	CatalogIndexed      int                        `json:"catalog_indexed,omitempty"`
	Checks              map[string]ComponentHealth `json:"checks,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running.
// Used by Kubernetes liveness probe.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if the service can serve predictions.
// The service is ready as long as any model tier is loaded; backing stores
// being down degrades but does not block readiness.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	status := h.buildStatus(r.Context(), false)

	statusCode := http.StatusOK
	if status.ModelTypeInUse == string(pricing.TierNone) {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("Readiness check failed: no model tier loaded")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

// HandleHealth returns detailed health status including component checks
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.buildStatus(r.Context(), true)

	statusCode := http.StatusOK
	if status.ModelTypeInUse == string(pricing.TierNone) {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

func (h *Handler) buildStatus(ctx context.Context, withChecks bool) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	reg := h.registry.Status()

	status := HealthStatus{
		Status:              "healthy",
		Service:             h.serviceName,
		Version:             h.version,
		Uptime:              time.Since(h.startTime).String(),
		Timestamp:           time.Now().Format(time.RFC3339),
		FastModelsLoaded:    reg.FastModelsLoaded,
		OriginalModelLoaded: reg.OriginalModelLoaded,
		FallbackModelLoaded: reg.FallbackModelLoaded,
		ModelTypeInUse:      string(reg.ActiveTier),
	}

	if h.recs != nil {
		if count, err := h.recs.CatalogCount(ctx); err == nil {
			status.CatalogItems = count
		}
		if count, err := h.recs.IndexedCount(ctx); err == nil {
			status.CatalogIndexed = count
		}
	}

	if !withChecks {
		return status
	}

	checks := make(map[string]ComponentHealth)
	healthyCount, totalCount := 0, 0

	if h.postgres != nil {
		totalCount++
		c := h.checkPostgres(ctx)
		checks["postgres"] = c
		if c.Status == "healthy" {
			healthyCount++
		}
	}

	if h.clickhouse != nil {
		totalCount++
		c := h.checkClickHouse(ctx)
		checks["clickhouse"] = c
		if c.Status == "healthy" {
			healthyCount++
		}
	}

	if h.redis != nil {
		totalCount++
		c := h.checkRedis(ctx)
		checks["redis"] = c
		if c.Status == "healthy" {
			healthyCount++
		}
	}

	status.Checks = checks
	if totalCount > 0 && healthyCount < totalCount {
		status.Status = "degraded"
	}

	return status
}

// checkPostgres verifies PostgreSQL connectivity
func (h *Handler) checkPostgres(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := h.postgres.PingContext(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Error("Postgres health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

// checkClickHouse verifies ClickHouse connectivity
func (h *Handler) checkClickHouse(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := h.clickhouse.Ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Error("ClickHouse health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

// checkRedis verifies Redis connectivity
func (h *Handler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := h.redis.Ping(ctx).Err()
	elapsed := time.Since(start)

	if err != nil {
		h.log.Error("Redis health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}
