package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"postlinkBack/internal/models"
)

// OrderStore is the repository surface the order lifecycle drives. The
// conditional mutations carry their own state guard in SQL; a false return
// means the order was not in a state that permits the transition.
type OrderStore interface {
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	GetOrderByID(ctx context.Context, id int) (models.Order, error)
	GetOrdersByIDs(ctx context.Context, ids []int) ([]models.Order, error)
	GetOrdersByPublisher(ctx context.Context, publisherID int, status string) ([]models.Order, error)
	Transition(ctx context.Context, id int, from, to string) (bool, error)
	SubmitURL(ctx context.Context, id int, submittedURL string, at time.Time) (bool, error)
	Complete(ctx context.Context, id int, at time.Time) (bool, error)
	RequestRevision(ctx context.Context, id int, notes string) (bool, error)
	Cancel(ctx context.Context, id int) (bool, error)
	SetVerificationNotes(ctx context.Context, id int, notes string) error
	AddAttachment(ctx context.Context, id int, attachmentURL string) error
}

type websiteReader interface {
	GetWebsiteByID(ctx context.Context, id int) (models.Website, error)
}

type OrderService struct {
	OrderRepo     OrderStore
	WebsiteRepo   websiteReader
	PublisherRepo PublisherStore
	Notifier      Notifier
	Cache         *DashboardCache
}

// Create assigns a new order to a publisher. The referenced website must be
// active and owned by that publisher; earnings are fixed here and never
// change afterwards.
func (s *OrderService) Create(ctx context.Context, o models.Order) (models.Order, error) {
	if o.Title == "" {
		return models.Order{}, &models.ValidationError{Reason: "order title is required"}
	}
	if o.Earnings <= 0 {
		return models.Order{}, &models.ValidationError{Reason: "order earnings must be positive"}
	}

	if _, err := s.PublisherRepo.GetPublisherByID(ctx, o.PublisherID); err != nil {
		return models.Order{}, err
	}
	website, err := s.WebsiteRepo.GetWebsiteByID(ctx, o.WebsiteID)
	if err != nil {
		return models.Order{}, err
	}
	if website.PublisherID != o.PublisherID {
		return models.Order{}, &models.ValidationError{Reason: fmt.Sprintf("website %d does not belong to publisher %d", o.WebsiteID, o.PublisherID)}
	}
	if website.Status != models.WebsiteStatusActive {
		return models.Order{}, &models.ValidationError{Reason: fmt.Sprintf("website %d is not active", o.WebsiteID)}
	}

	now := time.Now()
	o.OrderNumber = NextOrderNumber(now)
	o.Status = models.OrderStatusPending
	o.CreatedAt = now

	created, err := s.OrderRepo.CreateOrder(ctx, o)
	if err != nil {
		return models.Order{}, err
	}

	s.notifyPublisher(created.PublisherID, EventOrderAssigned, map[string]any{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"title":        created.Title,
		"target_url":   created.TargetURL,
		"anchor_text":  created.AnchorText,
		"deadline":     created.Deadline.Format(time.RFC3339),
		"earnings":     created.Earnings,
	})
	return created, nil
}

// ApproveTopic moves a freshly assigned order to ready-to-post.
func (s *OrderService) ApproveTopic(ctx context.Context, orderID, publisherID int) (models.Order, error) {
	order, err := s.ownedOrder(ctx, orderID, publisherID)
	if err != nil {
		return models.Order{}, err
	}

	ok, err := s.OrderRepo.Transition(ctx, orderID, models.OrderStatusPending, models.OrderStatusReadyToPost)
	if err != nil {
		return models.Order{}, err
	}
	if !ok {
		return models.Order{}, &models.InvalidTransitionError{Entity: "order", From: order.Status, Action: "approve topic"}
	}
	return s.OrderRepo.GetOrderByID(ctx, orderID)
}

// SubmitURL records the live placement URL and moves the order to
// verifying. Resubmission after a revision request clears the notes.
func (s *OrderService) SubmitURL(ctx context.Context, orderID, publisherID int, submittedURL string) (models.Order, error) {
	if submittedURL == "" {
		return models.Order{}, &models.ValidationError{Reason: "submitted url is required"}
	}

	order, err := s.ownedOrder(ctx, orderID, publisherID)
	if err != nil {
		return models.Order{}, err
	}

	ok, err := s.OrderRepo.SubmitURL(ctx, orderID, submittedURL, time.Now())
	if err != nil {
		return models.Order{}, err
	}
	if !ok {
		return models.Order{}, &models.InvalidTransitionError{Entity: "order", From: order.Status, Action: "submit url"}
	}
	return s.OrderRepo.GetOrderByID(ctx, orderID)
}

// UpdateStatus is the administrative transition into completed,
// revision-requested or cancelled. Completion credits earnings and bumps
// the completed-order counter exactly once, guarded at the storage layer
// against double invocation.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, newStatus, notes string) (models.Order, error) {
	order, err := s.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	switch newStatus {
	case models.OrderStatusCompleted:
		if err := s.complete(ctx, order, notes); err != nil {
			return models.Order{}, err
		}
	case models.OrderStatusRevisionRequested:
		if notes == "" {
			return models.Order{}, &models.ValidationError{Reason: "revision request requires notes"}
		}
		ok, err := s.OrderRepo.RequestRevision(ctx, orderID, notes)
		if err != nil {
			return models.Order{}, err
		}
		if !ok {
			return models.Order{}, &models.InvalidTransitionError{Entity: "order", From: order.Status, Action: "request revision"}
		}
		s.notifyPublisher(order.PublisherID, EventOrderRevision, map[string]any{
			"order_id":     orderID,
			"order_number": order.OrderNumber,
			"notes":        notes,
		})
	case models.OrderStatusCancelled:
		ok, err := s.OrderRepo.Cancel(ctx, orderID)
		if err != nil {
			return models.Order{}, err
		}
		if !ok {
			return models.Order{}, &models.InvalidTransitionError{Entity: "order", From: order.Status, Action: "cancel"}
		}
		if notes != "" {
			if err := s.OrderRepo.SetVerificationNotes(ctx, orderID, notes); err != nil {
				log.Printf("order %d: failed to store cancellation notes: %v", orderID, err)
			}
		}
		s.notifyPublisher(order.PublisherID, EventOrderCancelled, map[string]any{
			"order_id":     orderID,
			"order_number": order.OrderNumber,
			"reason":       notes,
		})
	default:
		return models.Order{}, &models.ValidationError{Reason: fmt.Sprintf("unknown order status %q", newStatus)}
	}

	return s.OrderRepo.GetOrderByID(ctx, orderID)
}

func (s *OrderService) complete(ctx context.Context, order models.Order, notes string) error {
	claimed, err := s.OrderRepo.Complete(ctx, order.ID, time.Now())
	if err != nil {
		return err
	}
	if !claimed {
		// Already completed or cancelled; earnings are credited at most once.
		return &models.InvalidTransitionError{Entity: "order", From: order.Status, Action: "complete"}
	}

	if notes != "" {
		if err := s.OrderRepo.SetVerificationNotes(ctx, order.ID, notes); err != nil {
			log.Printf("order %d: failed to store verification notes: %v", order.ID, err)
		}
	}

	if err := s.PublisherRepo.AddCompletedOrder(ctx, order.PublisherID, order.Earnings); err != nil {
		return err
	}
	if err := RecalculateTier(ctx, s.PublisherRepo, order.PublisherID); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, order.PublisherID)

	s.notifyPublisher(order.PublisherID, EventOrderCompleted, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"earnings":     order.Earnings,
	})
	return nil
}

// AttachContentImage stores an uploaded content image URL on the order.
func (s *OrderService) AttachContentImage(ctx context.Context, orderID int, imageURL string) error {
	if imageURL == "" {
		return &models.ValidationError{Reason: "attachment url is required"}
	}
	if _, err := s.OrderRepo.GetOrderByID(ctx, orderID); err != nil {
		return err
	}
	return s.OrderRepo.AddAttachment(ctx, orderID, imageURL)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int) (models.Order, error) {
	return s.OrderRepo.GetOrderByID(ctx, orderID)
}

func (s *OrderService) ListByPublisher(ctx context.Context, publisherID int, status string) ([]models.Order, error) {
	return s.OrderRepo.GetOrdersByPublisher(ctx, publisherID, status)
}

func (s *OrderService) ownedOrder(ctx context.Context, orderID, publisherID int) (models.Order, error) {
	order, err := s.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.PublisherID != publisherID {
		return models.Order{}, &models.OwnershipError{Entity: "order", ID: orderID, PublisherID: publisherID}
	}
	return order, nil
}

func (s *OrderService) notifyPublisher(publisherID int, event string, payload map[string]any) {
	if s.Notifier == nil {
		log.Printf("notifier not configured, dropping publisher event %s", event)
		return
	}
	s.Notifier.NotifyPublisher(publisherID, event, payload)
}
