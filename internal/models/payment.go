package models

import (
	"time"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
)

// Payment is an invoice aggregating a publisher's completed, unclaimed
// orders (or a manual out-of-band payment with no backing orders).
// Across all non-failed invoices of a publisher the referenced order sets
// are pairwise disjoint.
type Payment struct {
	ID            int        `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	PublisherID   int        `json:"publisher_id"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	OrderIDs      []int      `json:"order_ids,omitempty"`
	Manual        bool       `json:"manual"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	DueDate       time.Time  `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
