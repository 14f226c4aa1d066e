package models

import (
	"time"
)

// Ticket is a bare support-ticket record. Threaded messaging lives in a
// separate subsystem; only the numbered record is kept here.
type Ticket struct {
	ID           int       `json:"id"`
	TicketNumber string    `json:"ticket_number"`
	PublisherID  int       `json:"publisher_id"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
