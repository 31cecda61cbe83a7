package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"prestige-rentals/internal/models"
)

// MockPayment fakes the charge and returns the booking artifacts. Real
// payment processing is out of scope for this service.
func (h *Handler) MockPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("MockPayment: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.OrderService.MockPayment(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("MockPayment: %v", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.Logger.Error("API", fmt.Sprintf("MockPayment: failed to encode response: %v", err))
	}
}
