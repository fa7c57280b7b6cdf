package api

import (
	"encoding/json"
	"net/http"

	"smartretail/internal/domain/product"
	"smartretail/internal/services/pricing"
)

// PricingHandler serves price prediction requests
type PricingHandler struct {
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *pricing.Service) *PricingHandler {
	return &PricingHandler{service: service}
}

// HandlePredict handles POST /predict_price
func (h *PricingHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var desc product.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := desc.Validate(); err != nil {
		writeError(w, err)
		return
	}

	pred, err := h.service.PredictCached(r.Context(), &desc)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pred)
}
