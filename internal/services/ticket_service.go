package services

import (
	"context"
	"time"

	"postlinkBack/internal/models"
)

type ticketStore interface {
	CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error)
	GetTicketsByPublisher(ctx context.Context, publisherID int) ([]models.Ticket, error)
}

// TicketService creates numbered support-ticket records. The messaging
// thread lives in a separate subsystem; only the TKT-numbered record is
// kept here.
type TicketService struct {
	TicketRepo ticketStore
}

func (s *TicketService) Create(ctx context.Context, publisherID int, subject, body string) (models.Ticket, error) {
	if subject == "" {
		return models.Ticket{}, &models.ValidationError{Reason: "ticket subject is required"}
	}

	now := time.Now()
	ticket := models.Ticket{
		TicketNumber: NextTicketNumber(now),
		PublisherID:  publisherID,
		Subject:      subject,
		Body:         body,
		Status:       "open",
		CreatedAt:    now,
	}
	return s.TicketRepo.CreateTicket(ctx, ticket)
}

func (s *TicketService) ListByPublisher(ctx context.Context, publisherID int) ([]models.Ticket, error) {
	return s.TicketRepo.GetTicketsByPublisher(ctx, publisherID)
}
