package services

import (
	"context"
	"fmt"

	"postlinkBack/internal/models"
)

// Tier thresholds. Both counters must meet the minimum for the tier to
// apply, and a higher tier always implies the lower one.
const (
	goldOrderMin      = 50
	goldWebsiteMin    = 30
	premiumOrderMin   = 150
	premiumWebsiteMin = 100
)

// TierOf maps a publisher's accumulated counters to an account tier.
// It is monotonic non-decreasing in both arguments.
func TierOf(completedOrders, activeWebsites int) string {
	if completedOrders >= premiumOrderMin && activeWebsites >= premiumWebsiteMin {
		return models.TierPremium
	}
	if completedOrders >= goldOrderMin && activeWebsites >= goldWebsiteMin {
		return models.TierGold
	}
	return models.TierSilver
}

// PublisherStore is the slice of the publisher repository the lifecycle
// services depend on. Counter mutations are atomic increments at the
// storage layer; the tier is only ever written through RecalculateTier or
// the reconciliation recount.
type PublisherStore interface {
	GetPublisherByID(ctx context.Context, id int) (models.Publisher, error)
	AdjustActiveWebsites(ctx context.Context, id, delta int) error
	AddCompletedOrder(ctx context.Context, id int, earnings float64) error
	UpdateAccountTier(ctx context.Context, id int, tier string) error
	SetCounters(ctx context.Context, id, activeWebsites, completedOrders int, totalEarnings float64) error
}

// RecalculateTier re-reads the publisher's counters and persists the tier
// when the cached value drifted. Called after every counter mutation.
func RecalculateTier(ctx context.Context, store PublisherStore, publisherID int) error {
	publisher, err := store.GetPublisherByID(ctx, publisherID)
	if err != nil {
		return fmt.Errorf("recalculate tier: %w", err)
	}
	tier := TierOf(publisher.CompletedOrderCount, publisher.ActiveWebsiteCount)
	if tier == publisher.AccountTier {
		return nil
	}
	return store.UpdateAccountTier(ctx, publisherID, tier)
}
