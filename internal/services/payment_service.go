package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"postlinkBack/internal/models"
)

// PaymentStore persists invoices. CreateInvoice claims the referenced
// orders transactionally: either the invoice row exists and every order
// carries its claim marker, or nothing was written.
type PaymentStore interface {
	CreateInvoice(ctx context.Context, invoice models.Payment, orderIDs []int) (models.Payment, error)
	GetInvoiceByID(ctx context.Context, id int) (models.Payment, error)
	GetInvoicesByPublisher(ctx context.Context, publisherID int) ([]models.Payment, error)
	MarkProcessing(ctx context.Context, id int) (bool, error)
	MarkPaid(ctx context.Context, id int, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int) (bool, error)
}

// invoiceOrderReader is the slice of the order repository the aggregator
// needs: precondition reads plus the scheduled-run scan.
type invoiceOrderReader interface {
	GetOrdersByIDs(ctx context.Context, ids []int) ([]models.Order, error)
	ListUnclaimedCompleted(ctx context.Context, publisherID int) ([]models.Order, error)
	PublishersWithUnclaimedCompleted(ctx context.Context) ([]int, error)
}

type PaymentService struct {
	PaymentRepo   PaymentStore
	OrderRepo     invoiceOrderReader
	PublisherRepo PublisherStore
	Notifier      Notifier
	Cache         *DashboardCache
}

// NextPaymentDate returns the next bi-weekly payment date strictly after
// now: the 1st or 15th of a month, pushed off weekends onto Monday.
func NextPaymentDate(now time.Time) time.Time {
	var candidate time.Time
	if now.Day() < 15 {
		candidate = time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, now.Location())
	} else {
		candidate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	}
	return adjustOffWeekend(candidate)
}

func adjustOffWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// IsPaymentDay reports whether now falls on an adjusted payment date, i.e.
// the weekend-shifted 1st or 15th of its month.
func IsPaymentDay(now time.Time) bool {
	for _, day := range []int{1, 15} {
		base := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
		adjusted := adjustOffWeekend(base)
		if adjusted.Year() == now.Year() && adjusted.Month() == now.Month() && adjusted.Day() == now.Day() {
			return true
		}
	}
	return false
}

// GenerateInvoice aggregates the given completed, unclaimed orders of one
// publisher into a new pending invoice. All-or-nothing: any order failing
// a precondition aborts the whole aggregation.
func (s *PaymentService) GenerateInvoice(ctx context.Context, publisherID int, orderIDs []int) (models.Payment, error) {
	if len(orderIDs) == 0 {
		return models.Payment{}, &models.ValidationError{Reason: "invoice requires at least one order"}
	}
	if _, err := s.PublisherRepo.GetPublisherByID(ctx, publisherID); err != nil {
		return models.Payment{}, err
	}

	orders, err := s.OrderRepo.GetOrdersByIDs(ctx, orderIDs)
	if err != nil {
		return models.Payment{}, err
	}
	byID := make(map[int]models.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	var amount float64
	seen := make(map[int]bool, len(orderIDs))
	for _, id := range orderIDs {
		if seen[id] {
			return models.Payment{}, &models.ValidationError{Reason: fmt.Sprintf("order %d listed twice", id)}
		}
		seen[id] = true

		order, ok := byID[id]
		if !ok {
			return models.Payment{}, &models.ValidationError{Reason: fmt.Sprintf("order %d not found", id)}
		}
		if order.PublisherID != publisherID {
			return models.Payment{}, &models.ValidationError{Reason: fmt.Sprintf("order %d does not belong to publisher %d", id, publisherID)}
		}
		if order.Status != models.OrderStatusCompleted {
			return models.Payment{}, &models.ValidationError{Reason: fmt.Sprintf("order %d is not completed", id)}
		}
		if order.InvoiceID != nil {
			return models.Payment{}, &models.ValidationError{Reason: fmt.Sprintf("order %d is already claimed by invoice %d", id, *order.InvoiceID)}
		}
		amount += order.Earnings
	}

	now := time.Now()
	invoice := models.Payment{
		PublisherID: publisherID,
		Amount:      amount,
		Status:      models.PaymentStatusPending,
		InvoiceDate: now,
		DueDate:     NextPaymentDate(now),
	}
	created, err := s.PaymentRepo.CreateInvoice(ctx, invoice, orderIDs)
	if err != nil {
		return models.Payment{}, err
	}

	s.Cache.Invalidate(ctx, publisherID)
	return created, nil
}

// CreateManualPayment records an out-of-band payment with no backing
// orders. It still occupies a unique invoice number.
func (s *PaymentService) CreateManualPayment(ctx context.Context, publisherID int, amount float64, description string) (models.Payment, error) {
	if amount <= 0 {
		return models.Payment{}, &models.ValidationError{Reason: "payment amount must be positive"}
	}
	if _, err := s.PublisherRepo.GetPublisherByID(ctx, publisherID); err != nil {
		return models.Payment{}, err
	}

	now := time.Now()
	invoice := models.Payment{
		PublisherID: publisherID,
		Amount:      amount,
		Description: description,
		Status:      models.PaymentStatusPending,
		Manual:      true,
		InvoiceDate: now,
		DueDate:     NextPaymentDate(now),
	}
	created, err := s.PaymentRepo.CreateInvoice(ctx, invoice, nil)
	if err != nil {
		return models.Payment{}, err
	}
	s.Cache.Invalidate(ctx, publisherID)
	return created, nil
}

// ProcessPayment moves a pending invoice to processing.
func (s *PaymentService) ProcessPayment(ctx context.Context, invoiceID int) (models.Payment, error) {
	invoice, err := s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	ok, err := s.PaymentRepo.MarkProcessing(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, &models.InvalidTransitionError{Entity: "invoice", From: invoice.Status, Action: "process"}
	}
	return s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
}

// MarkPaid finalizes an invoice and notifies the publisher (best effort).
func (s *PaymentService) MarkPaid(ctx context.Context, invoiceID int) (models.Payment, error) {
	invoice, err := s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	ok, err := s.PaymentRepo.MarkPaid(ctx, invoiceID, time.Now())
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, &models.InvalidTransitionError{Entity: "invoice", From: invoice.Status, Action: "mark paid"}
	}

	paid, err := s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	s.Cache.Invalidate(ctx, invoice.PublisherID)
	if s.Notifier != nil {
		s.Notifier.NotifyPublisher(invoice.PublisherID, EventInvoicePaid, map[string]any{
			"invoice_id":     invoiceID,
			"invoice_number": paid.InvoiceNumber,
			"amount":         paid.Amount,
		})
	}
	return paid, nil
}

// MarkFailed voids an invoice and releases its order claims so they can be
// aggregated again.
func (s *PaymentService) MarkFailed(ctx context.Context, invoiceID int) (models.Payment, error) {
	invoice, err := s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	ok, err := s.PaymentRepo.MarkFailed(ctx, invoiceID)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, &models.InvalidTransitionError{Entity: "invoice", From: invoice.Status, Action: "mark failed"}
	}
	s.Cache.Invalidate(ctx, invoice.PublisherID)
	return s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
}

func (s *PaymentService) GetInvoice(ctx context.Context, invoiceID int) (models.Payment, error) {
	return s.PaymentRepo.GetInvoiceByID(ctx, invoiceID)
}

func (s *PaymentService) ListByPublisher(ctx context.Context, publisherID int) ([]models.Payment, error) {
	return s.PaymentRepo.GetInvoicesByPublisher(ctx, publisherID)
}

// RunScheduled performs the recurring bi-weekly aggregation: on an adjusted
// payment date it invoices every publisher's unclaimed completed orders.
// Per-publisher failures are logged and skipped so one bad aggregate does
// not stall the run. Returns the number of invoices created.
func (s *PaymentService) RunScheduled(ctx context.Context, now time.Time) (int, error) {
	if !IsPaymentDay(now) {
		return 0, nil
	}

	publisherIDs, err := s.OrderRepo.PublishersWithUnclaimedCompleted(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, publisherID := range publisherIDs {
		orders, err := s.OrderRepo.ListUnclaimedCompleted(ctx, publisherID)
		if err != nil {
			log.Printf("invoice run: listing orders for publisher %d failed: %v", publisherID, err)
			continue
		}
		if len(orders) == 0 {
			continue
		}
		ids := make([]int, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		if _, err := s.GenerateInvoice(ctx, publisherID, ids); err != nil {
			log.Printf("invoice run: publisher %d failed: %v", publisherID, err)
			continue
		}
		created++
	}
	return created, nil
}
