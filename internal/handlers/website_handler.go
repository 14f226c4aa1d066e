package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"postlinkBack/internal/models"
	"postlinkBack/internal/services"
)

type WebsiteHandler struct {
	Service *services.WebsiteService
}

func (h *WebsiteHandler) SubmitWebsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL            string  `json:"url"`
		Niche          string  `json:"niche"`
		AuthorityScore int     `json:"authority_score"`
		MonthlyTraffic int     `json:"monthly_traffic"`
		Price          float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	website, err := h.Service.Submit(r.Context(), models.Website{
		PublisherID:    callerID(r),
		URL:            req.URL,
		Niche:          req.Niche,
		AuthorityScore: req.AuthorityScore,
		MonthlyTraffic: req.MonthlyTraffic,
		Price:          req.Price,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) GetWebsiteByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	website, err := h.Service.GetWebsite(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) GetMyWebsites(w http.ResponseWriter, r *http.Request) {
	websites, err := h.Service.ListByPublisher(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(websites)
}

func (h *WebsiteHandler) GetWebsitesByStatus(w http.ResponseWriter, r *http.Request) {
	status := getParam(r, "status")
	if status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	websites, err := h.Service.ListByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(websites)
}

func (h *WebsiteHandler) SendCounterOffer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Price float64 `json:"price"`
		Notes string  `json:"notes"`
		Terms string  `json:"terms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var website models.Website
	if callerRole(r) == models.RoleAdmin {
		website, err = h.Service.AdminSendCounterOffer(r.Context(), id, req.Price, req.Notes, req.Terms)
	} else {
		website, err = h.Service.PublisherSendCounterOffer(r.Context(), id, callerID(r), req.Price, req.Notes, req.Terms)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) RespondToCounterOffer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	website, err := h.Service.PublisherRespondToCounterOffer(r.Context(), id, callerID(r), req.Accept)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) AcceptPublisherCounterOffer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	website, err := h.Service.AdminAcceptPublisherCounterOffer(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) VerifyWebsite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Method string `json:"verification_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	website, err := h.Service.AdminVerify(r.Context(), id, req.Method)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) UpdateWebsiteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	website, err := h.Service.AdminSetStatus(r.Context(), id, req.Status, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(website)
}

func (h *WebsiteHandler) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid website ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Website deleted"}`))
}
