package handlers

import (
	"encoding/json"
	"net/http"

	"postlinkBack/internal/services"
)

type TicketHandler struct {
	Service *services.TicketService
}

func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ticket, err := h.Service.Create(r.Context(), callerID(r), req.Subject, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ticket)
}

func (h *TicketHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Service.ListByPublisher(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tickets)
}
