package handlers

import (
	"errors"
	"log"
	"net/http"

	"postlinkBack/internal/models"
)

// writeServiceError translates service-layer errors into HTTP responses.
// Validation and transition failures are client errors, ownership failures
// are forbidden, missing records are 404 and everything else is logged and
// reported as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var transitionErr *models.InvalidTransitionError
	var ownershipErr *models.OwnershipError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &transitionErr):
		http.Error(w, transitionErr.Error(), http.StatusBadRequest)
	case errors.As(err, &ownershipErr):
		http.Error(w, ownershipErr.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrPublisherNotFound),
		errors.Is(err, models.ErrWebsiteNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrInvoiceNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrNoRecord):
		http.Error(w, err.Error(), http.StatusNotFound)
	case isForeignKeyConstraintError(err):
		http.Error(w, "Related record does not exist", http.StatusBadRequest)
	default:
		log.Printf("ERROR: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// callerID returns the publisher id placed in the request context by the
// JWT middleware.
func callerID(r *http.Request) int {
	id, _ := r.Context().Value("user_id").(int)
	return id
}

// callerRole returns the role placed in the request context by the JWT
// middleware.
func callerRole(r *http.Request) string {
	role, _ := r.Context().Value("role").(string)
	return role
}
