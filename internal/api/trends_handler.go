package api

import (
	"encoding/json"
	"net/http"
	"time"

	"smartretail/internal/services/trends"
)

// TrendsHandler serves fashion trend endpoints
type TrendsHandler struct {
	service *trends.Service
}

// NewTrendsHandler creates a new trends handler
func NewTrendsHandler(service *trends.Service) *TrendsHandler {
	return &TrendsHandler{service: service}
}

// HandleColors handles GET /trends/colors
func (h *TrendsHandler) HandleColors(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "30d"
	}
	switch timeframe {
	case "7d", "30d", "90d":
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "timeframe must be one of 7d, 30d, 90d"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"colors":    h.service.TrendingColors(timeframe),
		"timeframe": timeframe,
		"timestamp": time.Now().UTC(),
	})
}

// HandleStyles handles GET /trends/styles
func (h *TrendsHandler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "all"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"styles":    h.service.TrendingStyles(category),
		"category":  category,
		"timestamp": time.Now().UTC(),
	})
}

// HandleSeasonal handles GET /trends/seasonal
func (h *TrendsHandler) HandleSeasonal(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	switch season {
	case "", "spring", "summer", "fall", "winter":
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season must be one of spring, summer, fall, winter"})
		return
	}

	seasonal := h.service.Seasonal(season)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":    seasonal.Season,
		"colors":    seasonal.Colors,
		"styles":    seasonal.Styles,
		"materials": seasonal.Materials,
		"timestamp": time.Now().UTC(),
	})
}

// HandleReport handles GET /trends/report
func (h *TrendsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GenerateReport())
}

// HandleBrands handles POST /trends/brands
func (h *TrendsHandler) HandleBrands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req struct {
		Brands []string `json:"brands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if len(req.Brands) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "brands list cannot be empty"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"brands":    h.service.BrandPerformanceFor(req.Brands),
		"timestamp": time.Now().UTC(),
	})
}
