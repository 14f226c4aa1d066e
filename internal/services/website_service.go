package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"postlinkBack/internal/models"
)

// WebsiteStore is the repository surface the negotiation state machine
// drives. Conditional mutations return false when the guarding WHERE
// clause matched no row, which the service maps to an invalid-transition
// error against the state it just read.
type WebsiteStore interface {
	CreateWebsite(ctx context.Context, w models.Website) (models.Website, error)
	GetWebsiteByID(ctx context.Context, id int) (models.Website, error)
	GetWebsitesByPublisher(ctx context.Context, publisherID int) ([]models.Website, error)
	GetWebsitesByStatus(ctx context.Context, status string) ([]models.Website, error)
	SetCounterOffer(ctx context.Context, id int, fromStatuses []string, offer models.CounterOffer) (bool, error)
	AcceptCounterOffer(ctx context.Context, id int, offeredBy string) (bool, error)
	RejectCounterOffer(ctx context.Context, id int) (bool, error)
	Verify(ctx context.Context, id int, method string, at time.Time) (bool, error)
	UpdateWebsiteStatus(ctx context.Context, id int, from, to, reason string) (bool, error)
	SoftDeleteWebsite(ctx context.Context, id int) (bool, error)
}

type WebsiteService struct {
	WebsiteRepo   WebsiteStore
	PublisherRepo PublisherStore
	Notifier      Notifier
	Cache         *DashboardCache
}

// Submit creates a listing in "pending". No counter effects until the
// listing becomes active.
func (s *WebsiteService) Submit(ctx context.Context, w models.Website) (models.Website, error) {
	if w.URL == "" {
		return models.Website{}, &models.ValidationError{Reason: "website url is required"}
	}
	if w.Price < 0 {
		return models.Website{}, &models.ValidationError{Reason: "price cannot be negative"}
	}
	if _, err := s.PublisherRepo.GetPublisherByID(ctx, w.PublisherID); err != nil {
		return models.Website{}, err
	}

	w.Status = models.WebsiteStatusPending
	w.CounterOffer = nil
	w.CreatedAt = time.Now()

	created, err := s.WebsiteRepo.CreateWebsite(ctx, w)
	if err != nil {
		return models.Website{}, err
	}

	s.notifyAdmin(EventWebsiteSubmitted, map[string]any{
		"website_id":   created.ID,
		"publisher_id": created.PublisherID,
		"url":          created.URL,
	})
	return created, nil
}

// AdminSendCounterOffer proposes a price from the admin side. Allowed from
// "pending" or "counter-offer"; the new offer overwrites any previous one.
func (s *WebsiteService) AdminSendCounterOffer(ctx context.Context, websiteID int, price float64, notes, terms string) (models.Website, error) {
	if price <= 0 {
		return models.Website{}, &models.ValidationError{Reason: "counter-offer price must be positive"}
	}

	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}

	offer := models.CounterOffer{
		Price:     price,
		Notes:     notes,
		Terms:     terms,
		OfferedBy: models.OfferedByAdmin,
		OfferedAt: time.Now(),
		Status:    models.CounterOfferPending,
	}
	ok, err := s.WebsiteRepo.SetCounterOffer(ctx, websiteID,
		[]string{models.WebsiteStatusPending, models.WebsiteStatusCounterOffer}, offer)
	if err != nil {
		return models.Website{}, err
	}
	if !ok {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "send counter-offer"}
	}

	s.notifyPublisher(website.PublisherID, EventCounterOfferSent, map[string]any{
		"website_id": websiteID,
		"url":        website.URL,
		"price":      price,
		"notes":      notes,
	})
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

// PublisherSendCounterOffer lets the publisher re-offer while negotiation
// is open. The latest offer always wins and carries a pending sub-status.
func (s *WebsiteService) PublisherSendCounterOffer(ctx context.Context, websiteID, publisherID int, price float64, notes, terms string) (models.Website, error) {
	if price <= 0 {
		return models.Website{}, &models.ValidationError{Reason: "counter-offer price must be positive"}
	}

	website, err := s.ownedWebsite(ctx, websiteID, publisherID)
	if err != nil {
		return models.Website{}, err
	}

	offer := models.CounterOffer{
		Price:     price,
		Notes:     notes,
		Terms:     terms,
		OfferedBy: models.OfferedByPublisher,
		OfferedAt: time.Now(),
		Status:    models.CounterOfferPending,
	}
	ok, err := s.WebsiteRepo.SetCounterOffer(ctx, websiteID, []string{models.WebsiteStatusCounterOffer}, offer)
	if err != nil {
		return models.Website{}, err
	}
	if !ok {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "send counter-offer"}
	}

	s.notifyAdmin(EventCounterOfferReceived, map[string]any{
		"website_id":   websiteID,
		"publisher_id": publisherID,
		"url":          website.URL,
		"price":        price,
	})
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

// PublisherRespondToCounterOffer accepts or rejects the pending offer.
// Accepting activates the listing at the offered price.
func (s *WebsiteService) PublisherRespondToCounterOffer(ctx context.Context, websiteID, publisherID int, accept bool) (models.Website, error) {
	website, err := s.ownedWebsite(ctx, websiteID, publisherID)
	if err != nil {
		return models.Website{}, err
	}
	if website.Status != models.WebsiteStatusCounterOffer || website.CounterOffer == nil || website.CounterOffer.Status != models.CounterOfferPending {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "respond to counter-offer"}
	}

	if accept {
		return s.acceptOffer(ctx, website, "")
	}

	ok, err := s.WebsiteRepo.RejectCounterOffer(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if !ok {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "reject counter-offer"}
	}
	s.notifyAdmin(EventCounterOfferRejected, map[string]any{
		"website_id":   websiteID,
		"publisher_id": publisherID,
		"url":          website.URL,
	})
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

// AdminAcceptPublisherCounterOffer is the admin-side mirror of publisher
// acceptance: only valid while the pending offer was made by the publisher.
func (s *WebsiteService) AdminAcceptPublisherCounterOffer(ctx context.Context, websiteID int) (models.Website, error) {
	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if website.CounterOffer == nil || website.CounterOffer.OfferedBy != models.OfferedByPublisher || website.CounterOffer.Status != models.CounterOfferPending {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "accept publisher counter-offer"}
	}
	return s.acceptOffer(ctx, website, models.OfferedByPublisher)
}

func (s *WebsiteService) acceptOffer(ctx context.Context, website models.Website, requiredOfferedBy string) (models.Website, error) {
	ok, err := s.WebsiteRepo.AcceptCounterOffer(ctx, website.ID, requiredOfferedBy)
	if err != nil {
		return models.Website{}, err
	}
	if !ok {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "accept counter-offer"}
	}

	if err := s.activated(ctx, website.PublisherID); err != nil {
		return models.Website{}, err
	}

	if website.CounterOffer != nil && website.CounterOffer.OfferedBy == models.OfferedByAdmin {
		s.notifyAdmin(EventCounterOfferAccepted, map[string]any{
			"website_id":   website.ID,
			"publisher_id": website.PublisherID,
			"url":          website.URL,
		})
	} else {
		s.notifyPublisher(website.PublisherID, EventWebsiteApproved, map[string]any{
			"website_id": website.ID,
			"url":        website.URL,
		})
	}
	return s.WebsiteRepo.GetWebsiteByID(ctx, website.ID)
}

// AdminVerify directly activates a listing, bypassing negotiation.
// Re-verifying an already active website refreshes the verification record
// without double-counting.
func (s *WebsiteService) AdminVerify(ctx context.Context, websiteID int, method string) (models.Website, error) {
	if method == "" {
		return models.Website{}, &models.ValidationError{Reason: "verification method is required"}
	}

	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if website.Status == models.WebsiteStatusDeleted {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "verify"}
	}

	activated, err := s.WebsiteRepo.Verify(ctx, websiteID, method, time.Now())
	if err != nil {
		return models.Website{}, err
	}
	if activated {
		if err := s.activated(ctx, website.PublisherID); err != nil {
			return models.Website{}, err
		}
		s.notifyPublisher(website.PublisherID, EventWebsiteApproved, map[string]any{
			"website_id": websiteID,
			"url":        website.URL,
		})
	}
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

// AdminSetStatus is the generic administrative override. Moving into
// "active" counts the website; moving out of "active" uncounts it.
func (s *WebsiteService) AdminSetStatus(ctx context.Context, websiteID int, newStatus, reason string) (models.Website, error) {
	switch newStatus {
	case models.WebsiteStatusPending, models.WebsiteStatusActive, models.WebsiteStatusRejected, models.WebsiteStatusDeleted:
	default:
		return models.Website{}, &models.ValidationError{Reason: fmt.Sprintf("unknown website status %q", newStatus)}
	}
	if newStatus == models.WebsiteStatusRejected && reason == "" {
		return models.Website{}, &models.ValidationError{Reason: "rejection requires a reason"}
	}

	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if website.Status == newStatus {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "set status " + newStatus}
	}

	ok, err := s.WebsiteRepo.UpdateWebsiteStatus(ctx, websiteID, website.Status, newStatus, reason)
	if err != nil {
		return models.Website{}, err
	}
	if !ok {
		return models.Website{}, &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "set status " + newStatus}
	}

	if newStatus == models.WebsiteStatusActive {
		if err := s.activated(ctx, website.PublisherID); err != nil {
			return models.Website{}, err
		}
		s.notifyPublisher(website.PublisherID, EventWebsiteApproved, map[string]any{
			"website_id": websiteID,
			"url":        website.URL,
		})
	} else if website.Status == models.WebsiteStatusActive {
		if err := s.deactivated(ctx, website.PublisherID); err != nil {
			return models.Website{}, err
		}
	}

	if newStatus == models.WebsiteStatusRejected {
		s.notifyPublisher(website.PublisherID, EventWebsiteRejected, map[string]any{
			"website_id": websiteID,
			"url":        website.URL,
			"reason":     reason,
		})
	}
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

// Delete soft-deletes a listing. Active listings cannot be deleted; they
// must be deactivated first so the counter stays symmetric.
func (s *WebsiteService) Delete(ctx context.Context, websiteID, publisherID int) error {
	website, err := s.ownedWebsite(ctx, websiteID, publisherID)
	if err != nil {
		return err
	}
	if website.Status == models.WebsiteStatusActive {
		return &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "delete"}
	}

	ok, err := s.WebsiteRepo.SoftDeleteWebsite(ctx, websiteID)
	if err != nil {
		return err
	}
	if !ok {
		return &models.InvalidTransitionError{Entity: "website", From: website.Status, Action: "delete"}
	}
	return nil
}

func (s *WebsiteService) GetWebsite(ctx context.Context, websiteID int) (models.Website, error) {
	return s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
}

func (s *WebsiteService) ListByPublisher(ctx context.Context, publisherID int) ([]models.Website, error) {
	return s.WebsiteRepo.GetWebsitesByPublisher(ctx, publisherID)
}

func (s *WebsiteService) ListByStatus(ctx context.Context, status string) ([]models.Website, error) {
	return s.WebsiteRepo.GetWebsitesByStatus(ctx, status)
}

// activated applies the counter and tier effects of a website entering the
// active state. The increment is an atomic storage-level add.
func (s *WebsiteService) activated(ctx context.Context, publisherID int) error {
	if err := s.PublisherRepo.AdjustActiveWebsites(ctx, publisherID, 1); err != nil {
		return err
	}
	if err := RecalculateTier(ctx, s.PublisherRepo, publisherID); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, publisherID)
	return nil
}

func (s *WebsiteService) deactivated(ctx context.Context, publisherID int) error {
	if err := s.PublisherRepo.AdjustActiveWebsites(ctx, publisherID, -1); err != nil {
		return err
	}
	if err := RecalculateTier(ctx, s.PublisherRepo, publisherID); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, publisherID)
	return nil
}

func (s *WebsiteService) ownedWebsite(ctx context.Context, websiteID, publisherID int) (models.Website, error) {
	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if website.PublisherID != publisherID {
		return models.Website{}, &models.OwnershipError{Entity: "website", ID: websiteID, PublisherID: publisherID}
	}
	return website, nil
}

func (s *WebsiteService) notifyAdmin(event string, payload map[string]any) {
	if s.Notifier == nil {
		log.Printf("notifier not configured, dropping admin event %s", event)
		return
	}
	s.Notifier.NotifyAdmin(event, payload)
}

func (s *WebsiteService) notifyPublisher(publisherID int, event string, payload map[string]any) {
	if s.Notifier == nil {
		log.Printf("notifier not configured, dropping publisher event %s", event)
		return
	}
	s.Notifier.NotifyPublisher(publisherID, event, payload)
}
