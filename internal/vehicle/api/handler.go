package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
	"prestige-rentals/internal/vehicle"
)

type Handler struct {
	VehicleService *vehicle.VehicleService
	Logger         *logger.Logger
}

func vehicleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "vehicleId"), 10, 64)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.VehicleService.CreateVehicle(&v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateVehicle: %v", err))
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, v)
}

func (h *Handler) GetAllVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.VehicleService.GetAllVehicles()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllVehicles: %v", err))
		http.Error(w, "Failed to retrieve vehicles", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, vehicles)
}

// GetFilterOptions feeds the search filter dropdowns with the distinct
// attribute values of the active fleet.
func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	filters, err := h.VehicleService.GetFilterOptions()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetFilterOptions: %v", err))
		http.Error(w, "Failed to retrieve filter options", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, filters)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	v, err := h.VehicleService.GetVehicle(id)
	if errors.Is(err, models.ErrVehicleNotFound) {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVehicle: %v", err))
		http.Error(w, "Failed to retrieve vehicle", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, v)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	v.ID = id

	if err := h.VehicleService.UpdateVehicle(&v); err != nil {
		if errors.Is(err, models.ErrVehicleNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("UpdateVehicle: %v", err))
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, v)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	if err := h.VehicleService.DeleteVehicle(id); err != nil {
		if errors.Is(err, models.ErrVehicleNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteVehicle: %v", err))
		http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetOptions(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	var opts models.VehicleOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	opts.VehicleID = id

	if err := h.VehicleService.SetOptions(&opts); err != nil {
		if errors.Is(err, models.ErrVehicleNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("SetOptions: %v", err))
		http.Error(w, "Failed to save vehicle options", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, opts)
}

func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	opts, err := h.VehicleService.GetOptions(id)
	if err != nil {
		http.Error(w, "Vehicle options not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, opts)
}

// GetBookedRanges backs the booking calendar. Pass ?upcoming=true to hide
// windows that have already ended.
func (h *Handler) GetBookedRanges(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	upcoming := r.URL.Query().Get("upcoming") == "true"
	ranges, err := h.VehicleService.GetBookedRanges(id, upcoming)
	if errors.Is(err, models.ErrVehicleNotFound) {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBookedRanges: %v", err))
		http.Error(w, "Failed to retrieve booked ranges", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, ranges)
}
