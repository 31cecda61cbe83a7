package api

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
	reviewdb "prestige-rentals/internal/review/db"
)

type Handler struct {
	DB     *reviewdb.DB
	Logger *logger.Logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

// CreateReview takes the reviewer from the token and rejects a second
// review for the same order.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	review.UserID = userID

	if review.Rating < 1 || review.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5.", http.StatusBadRequest)
		return
	}

	if _, err := h.DB.GetReviewByOrder(review.OrderID); err == nil {
		http.Error(w, "This rental has already been reviewed.", http.StatusConflict)
		return
	} else if !errors.Is(err, models.ErrReviewNotFound) {
		h.Logger.Error("API", fmt.Sprintf("CreateReview: %v", err))
		http.Error(w, "Failed to create review", http.StatusInternalServerError)
		return
	}

	if err := h.DB.CreateReview(&review); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateReview: %v", err))
		http.Error(w, "Failed to create review", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, review)
}

func (h *Handler) GetReviewsForVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(chi.URLParam(r, "vehicleId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	reviews, err := h.DB.GetReviewsByVehicle(vehicleID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetReviewsForVehicle: %v", err))
		http.Error(w, "Failed to retrieve reviews", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, reviews)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid review id", http.StatusBadRequest)
		return
	}

	if err := h.DB.DeleteReview(id); err != nil {
		if errors.Is(err, models.ErrReviewNotFound) {
			http.Error(w, "Review not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteReview: %v", err))
		http.Error(w, "Failed to delete review", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
