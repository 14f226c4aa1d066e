package models

import (
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	TierSilver  = "silver"
	TierGold    = "gold"
	TierPremium = "premium"
)

const (
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// Publisher owns websites and fulfils placement orders. The three counters
// and the tier are derived values: they are maintained incrementally by the
// website/order lifecycles and repaired by reconciliation, never written
// directly by callers.
type Publisher struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone,omitempty"`
	Password            string     `json:"-"`
	Role                string     `json:"role"`
	Status              string     `json:"status"`
	ActiveWebsiteCount  int        `json:"active_website_count"`
	CompletedOrderCount int        `json:"completed_order_count"`
	TotalEarnings       float64    `json:"total_earnings"`
	AccountTier         string     `json:"account_tier"`
	FCMToken            string     `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

// Dashboard is the publisher-facing summary assembled from counters,
// unclaimed earnings and recent invoices.
type Dashboard struct {
	PublisherID     int       `json:"publisher_id"`
	AccountTier     string    `json:"account_tier"`
	ActiveWebsites  int       `json:"active_websites"`
	CompletedOrders int       `json:"completed_orders"`
	TotalEarnings   float64   `json:"total_earnings"`
	PendingEarnings float64   `json:"pending_earnings"`
	RecentInvoices  []Payment `json:"recent_invoices"`
}

type Session struct {
	UserID       int       `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	jwt.StandardClaims
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}
