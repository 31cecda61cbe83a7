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
	"prestige-rentals/internal/user"
)

type Handler struct {
	UserService *user.UserService
	Logger      *logger.Logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.UserService.Register(req)
	if errors.Is(err, models.ErrEmailExists) {
		http.Error(w, "An account with this email already exists.", http.StatusConflict)
		return
	}
	if errors.Is(err, models.ErrInvalidCredentials) {
		http.Error(w, "Email and password are required.", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: %v", err))
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.UserService.Login(req)
	if errors.Is(err, models.ErrInvalidCredentials) {
		http.Error(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.GetAllUsers()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllUsers: %v", err))
		http.Error(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	u, err := h.UserService.GetUser(id)
	if errors.Is(err, models.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetUser: %v", err))
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, u)
}

// GetProfile returns the caller's own details, resolved from the token.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	details, err := h.UserService.GetDetails(userID)
	if errors.Is(err, models.ErrUserNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetProfile: %v", err))
		http.Error(w, "Failed to retrieve profile", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, details)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var details models.UserDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	details.UserID = userID

	if err := h.UserService.UpdateDetails(&details); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, details)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.UserService.DeleteUser(id); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteUser: %v", err))
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
