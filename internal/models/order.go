package models

import (
	"time"
)

const (
	OrderStatusPending           = "pending"
	OrderStatusReadyToPost       = "ready-to-post"
	OrderStatusVerifying         = "verifying"
	OrderStatusCompleted         = "completed"
	OrderStatusRevisionRequested = "revision-requested"
	OrderStatusCancelled         = "cancelled"
)

// Order is a single placement assignment against one active website.
// Earnings are fixed at creation and credited to the publisher exactly once,
// on the transition into "completed". InvoiceID is the claim marker written
// when the order is aggregated into an invoice.
type Order struct {
	ID                int        `json:"id"`
	OrderNumber       string     `json:"order_number"`
	PublisherID       int        `json:"publisher_id"`
	WebsiteID         int        `json:"website_id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	TargetURL         string     `json:"target_url"`
	AnchorText        string     `json:"anchor_text"`
	Attachments       []string   `json:"attachments,omitempty"`
	Deadline          time.Time  `json:"deadline"`
	Earnings          float64    `json:"earnings"`
	Status            string     `json:"status"`
	SubmittedURL      string     `json:"submitted_url,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	RevisionNotes     string     `json:"revision_notes,omitempty"`
	VerificationNotes string     `json:"verification_notes,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	InvoiceID         *int       `json:"invoice_id,omitempty"`
	LinkLive          *bool      `json:"link_live,omitempty"`
	LinkCheckedAt     *time.Time `json:"link_checked_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}
