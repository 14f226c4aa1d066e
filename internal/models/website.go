package models

import (
	"time"
)

const (
	WebsiteStatusPending      = "pending"
	WebsiteStatusCounterOffer = "counter-offer"
	WebsiteStatusActive       = "active"
	WebsiteStatusRejected     = "rejected"
	WebsiteStatusDeleted      = "deleted"
)

const (
	CounterOfferPending  = "pending"
	CounterOfferAccepted = "accepted"
	CounterOfferRejected = "rejected"
)

const (
	OfferedByAdmin     = "admin"
	OfferedByPublisher = "publisher"
)

// CounterOffer is the latest price/terms proposal on a listing. Only one
// pending offer exists at a time; a new offer from either side overwrites
// the previous one. After accept/reject it is retained for audit.
type CounterOffer struct {
	Price     float64   `json:"price"`
	Notes     string    `json:"notes,omitempty"`
	Terms     string    `json:"terms,omitempty"`
	OfferedBy string    `json:"offered_by"`
	OfferedAt time.Time `json:"offered_at"`
	Status    string    `json:"status"`
}

type Website struct {
	ID                 int           `json:"id"`
	PublisherID        int           `json:"publisher_id"`
	URL                string        `json:"url"`
	Niche              string        `json:"niche"`
	AuthorityScore     int           `json:"authority_score"`
	MonthlyTraffic     int           `json:"monthly_traffic"`
	Price              float64       `json:"price"`
	Status             string        `json:"status"`
	CounterOffer       *CounterOffer `json:"counter_offer,omitempty"`
	VerificationMethod string        `json:"verification_method,omitempty"`
	VerifiedAt         *time.Time    `json:"verified_at,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          *time.Time    `json:"updated_at,omitempty"`
}
