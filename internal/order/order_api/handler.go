package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prestige-rentals/internal/auth"
	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
	"prestige-rentals/internal/order"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrVehicleNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBookingConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidTimeRange),
		errors.Is(err, models.ErrVehicleUnavailable),
		errors.Is(err, models.ErrUserEmailMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateOrder: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	createdOrder, err := h.OrderService.CreateOrder(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateOrder: %v", err))
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(createdOrder); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateOrder: failed to encode response: %v", err))
	}
}

func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderService.GetAllOrders()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllOrders: %v", err))
		http.Error(w, "Failed to retrieve orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllOrders: failed to encode response: %v", err))
	}
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	orderData, err := h.OrderService.GetOrder(id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		http.Error(w, "Order not found", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orderData); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: failed to encode response: %v", err))
	}
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	cancelled, err := h.OrderService.CancelOrder(id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelOrder: %v", err))
		http.Error(w, "Could not cancel order: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !cancelled {
		http.Error(w, "Order not found or already cancelled.", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOrdersForUser resolves the user from the auth token, not the URL, so
// customers can only list their own bookings.
func (h *Handler) GetOrdersForUser(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.OrderService.GetOrdersByUser(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersForUser: %v", err))
		http.Error(w, "Failed to retrieve orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersForUser: failed to encode response: %v", err))
	}
}
