package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"postlinkBack/internal/models"
)

// In-memory stand-ins for the repository interfaces. The conditional
// mutations mirror the SQL guards: they return false when the entity is
// not in a state that permits the transition.

type fakePublisherStore struct {
	publishers map[int]*models.Publisher
	tierWrites int
}

func newFakePublisherStore(publishers ...*models.Publisher) *fakePublisherStore {
	f := &fakePublisherStore{publishers: make(map[int]*models.Publisher)}
	for _, p := range publishers {
		f.publishers[p.ID] = p
	}
	return f
}

func (f *fakePublisherStore) GetPublisherByID(_ context.Context, id int) (models.Publisher, error) {
	p, ok := f.publishers[id]
	if !ok {
		return models.Publisher{}, models.ErrPublisherNotFound
	}
	return *p, nil
}

func (f *fakePublisherStore) AdjustActiveWebsites(_ context.Context, id, delta int) error {
	p, ok := f.publishers[id]
	if !ok {
		return models.ErrPublisherNotFound
	}
	p.ActiveWebsiteCount += delta
	if p.ActiveWebsiteCount < 0 {
		p.ActiveWebsiteCount = 0
	}
	return nil
}

func (f *fakePublisherStore) AddCompletedOrder(_ context.Context, id int, earnings float64) error {
	p, ok := f.publishers[id]
	if !ok {
		return models.ErrPublisherNotFound
	}
	p.CompletedOrderCount++
	p.TotalEarnings += earnings
	return nil
}

func (f *fakePublisherStore) UpdateAccountTier(_ context.Context, id int, tier string) error {
	p, ok := f.publishers[id]
	if !ok {
		return models.ErrPublisherNotFound
	}
	p.AccountTier = tier
	f.tierWrites++
	return nil
}

func (f *fakePublisherStore) SetCounters(_ context.Context, id, activeWebsites, completedOrders int, totalEarnings float64) error {
	p, ok := f.publishers[id]
	if !ok {
		return models.ErrPublisherNotFound
	}
	p.ActiveWebsiteCount = activeWebsites
	p.CompletedOrderCount = completedOrders
	p.TotalEarnings = totalEarnings
	return nil
}

type notifiedEvent struct {
	target      string
	publisherID int
	event       string
	payload     map[string]any
}

type fakeNotifier struct {
	events []notifiedEvent
}

func (f *fakeNotifier) NotifyAdmin(event string, payload map[string]any) {
	f.events = append(f.events, notifiedEvent{target: "admin", event: event, payload: payload})
}

func (f *fakeNotifier) NotifyPublisher(publisherID int, event string, payload map[string]any) {
	f.events = append(f.events, notifiedEvent{target: "publisher", publisherID: publisherID, event: event, payload: payload})
}

func (f *fakeNotifier) has(event string) bool {
	for _, e := range f.events {
		if e.event == event {
			return true
		}
	}
	return false
}

type fakeWebsiteStore struct {
	websites map[int]*models.Website
	nextID   int
}

func newFakeWebsiteStore() *fakeWebsiteStore {
	return &fakeWebsiteStore{websites: make(map[int]*models.Website), nextID: 1}
}

func (f *fakeWebsiteStore) CreateWebsite(_ context.Context, w models.Website) (models.Website, error) {
	w.ID = f.nextID
	f.nextID++
	copied := w
	f.websites[w.ID] = &copied
	return w, nil
}

func (f *fakeWebsiteStore) GetWebsiteByID(_ context.Context, id int) (models.Website, error) {
	w, ok := f.websites[id]
	if !ok {
		return models.Website{}, models.ErrWebsiteNotFound
	}
	return *w, nil
}

func (f *fakeWebsiteStore) GetWebsitesByPublisher(_ context.Context, publisherID int) ([]models.Website, error) {
	var out []models.Website
	for _, w := range f.websites {
		if w.PublisherID == publisherID && w.Status != models.WebsiteStatusDeleted {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWebsiteStore) GetWebsitesByStatus(_ context.Context, status string) ([]models.Website, error) {
	var out []models.Website
	for _, w := range f.websites {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWebsiteStore) SetCounterOffer(_ context.Context, id int, fromStatuses []string, offer models.CounterOffer) (bool, error) {
	w, ok := f.websites[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, st := range fromStatuses {
		if w.Status == st {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	w.Status = models.WebsiteStatusCounterOffer
	copied := offer
	w.CounterOffer = &copied
	return true, nil
}

func (f *fakeWebsiteStore) AcceptCounterOffer(_ context.Context, id int, offeredBy string) (bool, error) {
	w, ok := f.websites[id]
	if !ok || w.Status != models.WebsiteStatusCounterOffer || w.CounterOffer == nil || w.CounterOffer.Status != models.CounterOfferPending {
		return false, nil
	}
	if offeredBy != "" && w.CounterOffer.OfferedBy != offeredBy {
		return false, nil
	}
	w.Status = models.WebsiteStatusActive
	w.Price = w.CounterOffer.Price
	w.CounterOffer.Status = models.CounterOfferAccepted
	return true, nil
}

func (f *fakeWebsiteStore) RejectCounterOffer(_ context.Context, id int) (bool, error) {
	w, ok := f.websites[id]
	if !ok || w.Status != models.WebsiteStatusCounterOffer || w.CounterOffer == nil || w.CounterOffer.Status != models.CounterOfferPending {
		return false, nil
	}
	w.Status = models.WebsiteStatusRejected
	w.CounterOffer.Status = models.CounterOfferRejected
	return true, nil
}

func (f *fakeWebsiteStore) Verify(_ context.Context, id int, method string, at time.Time) (bool, error) {
	w, ok := f.websites[id]
	if !ok {
		return false, nil
	}
	w.VerificationMethod = method
	w.VerifiedAt = &at
	if w.Status == models.WebsiteStatusActive || w.Status == models.WebsiteStatusDeleted {
		return false, nil
	}
	w.Status = models.WebsiteStatusActive
	return true, nil
}

func (f *fakeWebsiteStore) UpdateWebsiteStatus(_ context.Context, id int, from, to, reason string) (bool, error) {
	w, ok := f.websites[id]
	if !ok || w.Status != from {
		return false, nil
	}
	w.Status = to
	w.RejectionReason = reason
	return true, nil
}

func (f *fakeWebsiteStore) SoftDeleteWebsite(_ context.Context, id int) (bool, error) {
	w, ok := f.websites[id]
	if !ok || w.Status == models.WebsiteStatusActive || w.Status == models.WebsiteStatusDeleted {
		return false, nil
	}
	w.Status = models.WebsiteStatusDeleted
	return true, nil
}

func (f *fakeWebsiteStore) CountActiveByPublisher(_ context.Context, publisherID int) (int, error) {
	count := 0
	for _, w := range f.websites {
		if w.PublisherID == publisherID && w.Status == models.WebsiteStatusActive {
			count++
		}
	}
	return count, nil
}

type fakeOrderStore struct {
	orders map[int]*models.Order
	nextID int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[int]*models.Order), nextID: 1}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	o.ID = f.nextID
	f.nextID++
	copied := o
	f.orders[o.ID] = &copied
	return o, nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id int) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	return *o, nil
}

func (f *fakeOrderStore) GetOrdersByIDs(_ context.Context, ids []int) ([]models.Order, error) {
	var out []models.Order
	for _, id := range ids {
		if o, ok := f.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrdersByPublisher(_ context.Context, publisherID int, status string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PublisherID == publisherID && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) Transition(_ context.Context, id int, from, to string) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (f *fakeOrderStore) SubmitURL(_ context.Context, id int, submittedURL string, at time.Time) (bool, error) {
	o, ok := f.orders[id]
	if !ok || (o.Status != models.OrderStatusReadyToPost && o.Status != models.OrderStatusRevisionRequested) {
		return false, nil
	}
	o.Status = models.OrderStatusVerifying
	o.SubmittedURL = submittedURL
	o.SubmittedAt = &at
	o.RevisionNotes = ""
	return true, nil
}

func (f *fakeOrderStore) Complete(_ context.Context, id int, at time.Time) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status == models.OrderStatusCompleted || o.Status == models.OrderStatusCancelled {
		return false, nil
	}
	o.Status = models.OrderStatusCompleted
	o.CompletedAt = &at
	return true, nil
}

func (f *fakeOrderStore) RequestRevision(_ context.Context, id int, notes string) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != models.OrderStatusVerifying {
		return false, nil
	}
	o.Status = models.OrderStatusRevisionRequested
	o.RevisionNotes = notes
	return true, nil
}

func (f *fakeOrderStore) Cancel(_ context.Context, id int) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status == models.OrderStatusCompleted || o.Status == models.OrderStatusCancelled {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	return true, nil
}

func (f *fakeOrderStore) SetVerificationNotes(_ context.Context, id int, notes string) error {
	o, ok := f.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.VerificationNotes = notes
	return nil
}

func (f *fakeOrderStore) AddAttachment(_ context.Context, id int, attachmentURL string) error {
	o, ok := f.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.Attachments = append(o.Attachments, attachmentURL)
	return nil
}

func (f *fakeOrderStore) ListUnclaimedCompleted(_ context.Context, publisherID int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PublisherID == publisherID && o.Status == models.OrderStatusCompleted && o.InvoiceID == nil {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) PublishersWithUnclaimedCompleted(_ context.Context) ([]int, error) {
	seen := make(map[int]bool)
	var ids []int
	for _, o := range f.orders {
		if o.Status == models.OrderStatusCompleted && o.InvoiceID == nil && !seen[o.PublisherID] {
			seen[o.PublisherID] = true
			ids = append(ids, o.PublisherID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (f *fakeOrderStore) CountCompletedByPublisher(_ context.Context, publisherID int) (int, error) {
	count := 0
	for _, o := range f.orders {
		if o.PublisherID == publisherID && o.Status == models.OrderStatusCompleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderStore) SumCompletedEarnings(_ context.Context, publisherID int) (float64, error) {
	var sum float64
	for _, o := range f.orders {
		if o.PublisherID == publisherID && o.Status == models.OrderStatusCompleted {
			sum += o.Earnings
		}
	}
	return sum, nil
}

func (f *fakeOrderStore) SumUnclaimedEarnings(_ context.Context, publisherID int) (float64, error) {
	var sum float64
	for _, o := range f.orders {
		if o.PublisherID == publisherID && o.Status == models.OrderStatusCompleted && o.InvoiceID == nil {
			sum += o.Earnings
		}
	}
	return sum, nil
}

// fakePaymentStore reproduces the transactional claim semantics of the SQL
// repository: order claims and invoice creation succeed or fail together.
type fakePaymentStore struct {
	orders   *fakeOrderStore
	invoices map[int]*models.Payment
	nextID   int
	seq      map[string]int
}

func newFakePaymentStore(orders *fakeOrderStore) *fakePaymentStore {
	return &fakePaymentStore{
		orders:   orders,
		invoices: make(map[int]*models.Payment),
		nextID:   1,
		seq:      make(map[string]int),
	}
}

func (f *fakePaymentStore) CreateInvoice(_ context.Context, invoice models.Payment, orderIDs []int) (models.Payment, error) {
	for _, id := range orderIDs {
		o, ok := f.orders.orders[id]
		if !ok || o.Status != models.OrderStatusCompleted || o.InvoiceID != nil || o.PublisherID != invoice.PublisherID {
			return models.Payment{}, &models.ValidationError{
				Reason: fmt.Sprintf("order %d is not claimable (not completed or already invoiced)", id),
			}
		}
	}

	invoice.ID = f.nextID
	f.nextID++
	period := invoice.InvoiceDate.Format("200601")
	f.seq[period]++
	invoice.InvoiceNumber = fmt.Sprintf("INV-%s-%d", period, f.seq[period])
	invoice.OrderIDs = orderIDs
	invoice.CreatedAt = time.Now()

	for _, id := range orderIDs {
		claimed := invoice.ID
		f.orders.orders[id].InvoiceID = &claimed
	}
	copied := invoice
	f.invoices[invoice.ID] = &copied
	return invoice, nil
}

func (f *fakePaymentStore) GetInvoiceByID(_ context.Context, id int) (models.Payment, error) {
	p, ok := f.invoices[id]
	if !ok {
		return models.Payment{}, models.ErrInvoiceNotFound
	}
	return *p, nil
}

func (f *fakePaymentStore) GetInvoicesByPublisher(_ context.Context, publisherID int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.invoices {
		if p.PublisherID == publisherID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) GetRecentInvoices(ctx context.Context, publisherID, limit int) ([]models.Payment, error) {
	out, err := f.GetInvoicesByPublisher(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePaymentStore) MarkProcessing(_ context.Context, id int) (bool, error) {
	p, ok := f.invoices[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusProcessing
	return true, nil
}

func (f *fakePaymentStore) MarkPaid(_ context.Context, id int, at time.Time) (bool, error) {
	p, ok := f.invoices[id]
	if !ok || (p.Status != models.PaymentStatusPending && p.Status != models.PaymentStatusProcessing) {
		return false, nil
	}
	p.Status = models.PaymentStatusPaid
	p.PaymentDate = &at
	return true, nil
}

func (f *fakePaymentStore) MarkFailed(_ context.Context, id int) (bool, error) {
	p, ok := f.invoices[id]
	if !ok || (p.Status != models.PaymentStatusPending && p.Status != models.PaymentStatusProcessing) {
		return false, nil
	}
	p.Status = models.PaymentStatusFailed
	for _, o := range f.orders.orders {
		if o.InvoiceID != nil && *o.InvoiceID == id {
			o.InvoiceID = nil
		}
	}
	return true, nil
}
