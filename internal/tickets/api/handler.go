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
	ticketdb "prestige-rentals/internal/tickets/db"
)

type Handler struct {
	DB     *ticketdb.DB
	Logger *logger.Logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

// CreateTicket is the public contact form endpoint; no auth required.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var ticket models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if ticket.Email == "" || ticket.Description == "" {
		http.Error(w, "Email and description are required.", http.StatusBadRequest)
		return
	}

	if err := h.DB.CreateTicket(&ticket); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTicket: %v", err))
		http.Error(w, "Failed to create ticket", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, ticket)
}

func (h *Handler) GetAllTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.DB.GetAllTickets()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllTickets: %v", err))
		http.Error(w, "Failed to retrieve tickets", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, tickets)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ticketId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ticket id", http.StatusBadRequest)
		return
	}

	ticket, err := h.DB.GetTicketByID(id)
	if errors.Is(err, models.ErrTicketNotFound) {
		http.Error(w, "Ticket not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: %v", err))
		http.Error(w, "Failed to retrieve ticket", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, ticket)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ticketId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ticket id", http.StatusBadRequest)
		return
	}

	if err := h.DB.DeleteTicket(id); err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, "Ticket not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteTicket: %v", err))
		http.Error(w, "Failed to delete ticket", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
