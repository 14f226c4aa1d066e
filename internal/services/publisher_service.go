package services

import (
	"context"

	"postlinkBack/internal/models"
)

// publisherProfileStore extends the counter surface with the profile and
// token operations only this service needs.
type publisherProfileStore interface {
	PublisherStore
	GetPublishers(ctx context.Context) ([]models.Publisher, error)
	UpdatePublisherStatus(ctx context.Context, id int, status string) error
	SaveFCMToken(ctx context.Context, id int, token string) error
}

type websiteCounter interface {
	CountActiveByPublisher(ctx context.Context, publisherID int) (int, error)
}

type orderCounter interface {
	CountCompletedByPublisher(ctx context.Context, publisherID int) (int, error)
	SumCompletedEarnings(ctx context.Context, publisherID int) (float64, error)
	SumUnclaimedEarnings(ctx context.Context, publisherID int) (float64, error)
}

type invoiceLister interface {
	GetRecentInvoices(ctx context.Context, publisherID, limit int) ([]models.Payment, error)
}

type PublisherService struct {
	PublisherRepo publisherProfileStore
	WebsiteRepo   websiteCounter
	OrderRepo     orderCounter
	PaymentRepo   invoiceLister
	Cache         *DashboardCache
}

func (s *PublisherService) GetPublisher(ctx context.Context, id int) (models.Publisher, error) {
	return s.PublisherRepo.GetPublisherByID(ctx, id)
}

func (s *PublisherService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return s.PublisherRepo.GetPublishers(ctx)
}

// Deactivate flags the account; publishers are never deleted.
func (s *PublisherService) Deactivate(ctx context.Context, id int) error {
	if _, err := s.PublisherRepo.GetPublisherByID(ctx, id); err != nil {
		return err
	}
	return s.PublisherRepo.UpdatePublisherStatus(ctx, id, "deactivated")
}

func (s *PublisherService) SaveFCMToken(ctx context.Context, id int, token string) error {
	if token == "" {
		return &models.ValidationError{Reason: "fcm token is required"}
	}
	return s.PublisherRepo.SaveFCMToken(ctx, id, token)
}

// Dashboard assembles the publisher summary, served from Redis when fresh.
func (s *PublisherService) Dashboard(ctx context.Context, publisherID int) (models.Dashboard, error) {
	if cached, ok := s.Cache.Get(ctx, publisherID); ok {
		return cached, nil
	}

	publisher, err := s.PublisherRepo.GetPublisherByID(ctx, publisherID)
	if err != nil {
		return models.Dashboard{}, err
	}
	pending, err := s.OrderRepo.SumUnclaimedEarnings(ctx, publisherID)
	if err != nil {
		return models.Dashboard{}, err
	}
	invoices, err := s.PaymentRepo.GetRecentInvoices(ctx, publisherID, 5)
	if err != nil {
		return models.Dashboard{}, err
	}

	d := models.Dashboard{
		PublisherID:     publisherID,
		AccountTier:     publisher.AccountTier,
		ActiveWebsites:  publisher.ActiveWebsiteCount,
		CompletedOrders: publisher.CompletedOrderCount,
		TotalEarnings:   publisher.TotalEarnings,
		PendingEarnings: pending,
		RecentInvoices:  invoices,
	}
	s.Cache.Set(ctx, publisherID, d)
	return d, nil
}

// ReconcileCounters recomputes the cached counters from the authoritative
// website/order collections and repairs both them and the tier. This is
// the recovery path for incremental drift after partial failures; it is
// the only code allowed to overwrite the counters wholesale.
func (s *PublisherService) ReconcileCounters(ctx context.Context, publisherID int) (models.Publisher, error) {
	if _, err := s.PublisherRepo.GetPublisherByID(ctx, publisherID); err != nil {
		return models.Publisher{}, err
	}

	activeWebsites, err := s.WebsiteRepo.CountActiveByPublisher(ctx, publisherID)
	if err != nil {
		return models.Publisher{}, err
	}
	completedOrders, err := s.OrderRepo.CountCompletedByPublisher(ctx, publisherID)
	if err != nil {
		return models.Publisher{}, err
	}
	totalEarnings, err := s.OrderRepo.SumCompletedEarnings(ctx, publisherID)
	if err != nil {
		return models.Publisher{}, err
	}

	if err := s.PublisherRepo.SetCounters(ctx, publisherID, activeWebsites, completedOrders, totalEarnings); err != nil {
		return models.Publisher{}, err
	}
	if err := RecalculateTier(ctx, s.PublisherRepo, publisherID); err != nil {
		return models.Publisher{}, err
	}
	s.Cache.Invalidate(ctx, publisherID)

	return s.PublisherRepo.GetPublisherByID(ctx, publisherID)
}
