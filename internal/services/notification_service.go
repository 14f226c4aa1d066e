package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/messaging"

	"postlinkBack/internal/models"
)

const notifyTimeout = 10 * time.Second

// Notification event types emitted by the lifecycle services.
const (
	EventWebsiteSubmitted     = "website_submitted"
	EventCounterOfferSent     = "counter_offer_sent"
	EventCounterOfferReceived = "counter_offer_received"
	EventCounterOfferAccepted = "counter_offer_accepted"
	EventCounterOfferRejected = "counter_offer_rejected"
	EventWebsiteApproved      = "website_approved"
	EventWebsiteRejected      = "website_rejected"
	EventOrderAssigned        = "order_assigned"
	EventOrderCompleted       = "order_completed"
	EventOrderRevision        = "order_revision"
	EventOrderCancelled       = "order_cancelled"
	EventInvoicePaid          = "invoice_paid"
)

// Notifier is the fire-and-forget side channel invoked by the state
// machines after a transition has committed. Implementations never block
// the caller and never surface failures.
type Notifier interface {
	NotifyAdmin(event string, payload map[string]any)
	NotifyPublisher(publisherID int, event string, payload map[string]any)
}

type wsBroadcaster interface {
	Broadcast(event string, payload map[string]any)
}

type notificationPublisherStore interface {
	GetPublisherByID(ctx context.Context, id int) (models.Publisher, error)
}

// NotificationService fans a single event out to FCM push, the admin
// websocket feed and email. Every delivery failure is logged and swallowed;
// a committed transition is never rolled back by a notification problem.
type NotificationService struct {
	FCMClient  *messaging.Client
	Publishers notificationPublisherStore
	Email      *EmailService
	WS         wsBroadcaster
	AdminEmail string
}

func (s *NotificationService) NotifyAdmin(event string, payload map[string]any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if s.WS != nil {
			s.WS.Broadcast(event, payload)
		}
		if s.Email != nil && s.AdminEmail != "" {
			if err := s.Email.Send(ctx, s.AdminEmail, subjectFor(event), renderEventBody(event, payload)); err != nil {
				log.Printf("notify admin: email for %s failed: %v", event, err)
			}
		}
	}()
}

func (s *NotificationService) NotifyPublisher(publisherID int, event string, payload map[string]any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		publisher, err := s.Publishers.GetPublisherByID(ctx, publisherID)
		if err != nil {
			log.Printf("notify publisher %d: lookup failed for %s: %v", publisherID, event, err)
			return
		}

		if s.FCMClient != nil && publisher.FCMToken != "" {
			if err := s.sendPush(ctx, publisher.FCMToken, event, payload); err != nil {
				log.Printf("notify publisher %d: push for %s failed: %v", publisherID, event, err)
			}
		}
		if s.Email != nil && publisher.Email != "" {
			if err := s.Email.Send(ctx, publisher.Email, subjectFor(event), renderEventBody(event, payload)); err != nil {
				log.Printf("notify publisher %d: email for %s failed: %v", publisherID, event, err)
			}
		}
	}()
}

func (s *NotificationService) sendPush(ctx context.Context, token, event string, payload map[string]any) error {
	data := make(map[string]string, len(payload)+1)
	data["event"] = event
	for k, v := range payload {
		data[k] = fmt.Sprint(v)
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: subjectFor(event),
			Body:  renderEventSummary(event, payload),
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	_, err := s.FCMClient.Send(ctx, message)
	return err
}

func subjectFor(event string) string {
	switch event {
	case EventWebsiteSubmitted:
		return "New website listing submitted"
	case EventCounterOfferSent:
		return "You received a counter-offer"
	case EventCounterOfferReceived:
		return "Publisher sent a counter-offer"
	case EventCounterOfferAccepted:
		return "Counter-offer accepted"
	case EventCounterOfferRejected:
		return "Counter-offer rejected"
	case EventWebsiteApproved:
		return "Your website is now active"
	case EventWebsiteRejected:
		return "Your website listing was rejected"
	case EventOrderAssigned:
		return "New order assigned to you"
	case EventOrderCompleted:
		return "Order completed"
	case EventOrderRevision:
		return "Order revision requested"
	case EventOrderCancelled:
		return "Order cancelled"
	case EventInvoicePaid:
		return "Invoice paid"
	default:
		return "PostLink notification"
	}
}

func renderEventSummary(event string, payload map[string]any) string {
	switch event {
	case EventCounterOfferSent, EventCounterOfferReceived:
		return fmt.Sprintf("Offered price: $%v", payload["price"])
	case EventOrderAssigned:
		return fmt.Sprintf("Order %v: %v", payload["order_number"], payload["title"])
	case EventOrderCompleted:
		return fmt.Sprintf("Order %v completed, $%v credited", payload["order_number"], payload["earnings"])
	case EventOrderRevision:
		return fmt.Sprintf("Revision notes: %v", payload["notes"])
	case EventInvoicePaid:
		return fmt.Sprintf("Invoice %v for $%v was paid", payload["invoice_number"], payload["amount"])
	default:
		return subjectFor(event)
	}
}

func renderEventBody(event string, payload map[string]any) string {
	body := "<p>" + renderEventSummary(event, payload) + "</p>"
	if reason, ok := payload["reason"]; ok && reason != "" {
		body += fmt.Sprintf("<p>Reason: %v</p>", reason)
	}
	return body
}
