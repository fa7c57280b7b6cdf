package api

import (
	"encoding/json"
	"net/http"
	"time"

	"smartretail/internal/services/recommendation"
	"smartretail/pkg/errors"
)

// RecommendHandler serves product recommendation requests
type RecommendHandler struct {
	service *recommendation.Service
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(service *recommendation.Service) *RecommendHandler {
	return &RecommendHandler{service: service}
}

type recommendRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type recommendResponse struct {
	Query        string                          `json:"query"`
	Results      []recommendation.Recommendation `json:"results"`
	TotalResults int                             `json:"total_results"`
	Timestamp    time.Time                       `json:"timestamp"`
}

// HandleRecommend handles POST /recommend_products
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if h.service == nil {
		writeError(w, errors.ErrRecsUnavailable)
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	recs, err := h.service.Recommend(r.Context(), req.Query, req.K)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Query:        req.Query,
		Results:      recs,
		TotalResults: len(recs),
		Timestamp:    time.Now().UTC(),
	})
}
