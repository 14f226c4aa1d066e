package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"postlinkBack/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func (h *PaymentHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublisherID int   `json:"publisher_id"`
		OrderIDs    []int `json:"order_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.GenerateInvoice(r.Context(), req.PublisherID, req.OrderIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invoice)
}

func (h *PaymentHandler) CreateManualPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublisherID int     `json:"publisher_id"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.CreateManualPayment(r.Context(), req.PublisherID, req.Amount, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invoice)
}

func (h *PaymentHandler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

func (h *PaymentHandler) GetMyInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.ListByPublisher(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoices)
}

func (h *PaymentHandler) GetInvoicesByPublisher(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid publisher ID", http.StatusBadRequest)
		return
	}

	invoices, err := h.Service.ListByPublisher(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoices)
}

func (h *PaymentHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var invoice any
	switch req.Status {
	case "processing":
		invoice, err = h.Service.ProcessPayment(r.Context(), id)
	case "paid":
		invoice, err = h.Service.MarkPaid(r.Context(), id)
	case "failed":
		invoice, err = h.Service.MarkFailed(r.Context(), id)
	default:
		http.Error(w, "status must be one of processing, paid, failed", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// RunScheduled triggers the invoice aggregation run immediately instead of
// waiting for the daily scheduler tick.
func (h *PaymentHandler) RunScheduled(w http.ResponseWriter, r *http.Request) {
	created, err := h.Service.RunScheduled(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"invoices_created": created})
}
