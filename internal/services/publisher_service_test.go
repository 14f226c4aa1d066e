package services

import (
	"context"
	"testing"
	"time"

	"postlinkBack/internal/models"
)

type fakeProfileStore struct {
	*fakePublisherStore
	statuses  map[int]string
	fcmTokens map[int]string
}

func newFakeProfileStore(publishers ...*models.Publisher) *fakeProfileStore {
	return &fakeProfileStore{
		fakePublisherStore: newFakePublisherStore(publishers...),
		statuses:           make(map[int]string),
		fcmTokens:          make(map[int]string),
	}
}

func (f *fakeProfileStore) GetPublishers(_ context.Context) ([]models.Publisher, error) {
	out := make([]models.Publisher, 0, len(f.publishers))
	for _, p := range f.publishers {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileStore) UpdatePublisherStatus(_ context.Context, id int, status string) error {
	if _, ok := f.publishers[id]; !ok {
		return models.ErrPublisherNotFound
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeProfileStore) SaveFCMToken(_ context.Context, id int, token string) error {
	if _, ok := f.publishers[id]; !ok {
		return models.ErrPublisherNotFound
	}
	f.fcmTokens[id] = token
	return nil
}

func newPublisherService(publishers ...*models.Publisher) (*PublisherService, *fakeProfileStore, *fakeWebsiteStore, *fakeOrderStore, *fakePaymentStore) {
	store := newFakeProfileStore(publishers...)
	websites := newFakeWebsiteStore()
	orders := newFakeOrderStore()
	payments := newFakePaymentStore(orders)
	svc := &PublisherService{
		PublisherRepo: store,
		WebsiteRepo:   websites,
		OrderRepo:     orders,
		PaymentRepo:   payments,
	}
	return svc, store, websites, orders, payments
}

func TestDashboardAggregatesCountersAndPendingEarnings(t *testing.T) {
	svc, _, _, orders, _ := newPublisherService(&models.Publisher{
		ID:                  7,
		AccountTier:         models.TierGold,
		ActiveWebsiteCount:  31,
		CompletedOrderCount: 52,
		TotalEarnings:       4200,
	})

	ctx := context.Background()
	for _, earnings := range []float64{30, 45} {
		o, err := orders.CreateOrder(ctx, models.Order{PublisherID: 7, WebsiteID: 1, Status: models.OrderStatusVerifying, Earnings: earnings})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}
		if ok, err := orders.Complete(ctx, o.ID, time.Now()); !ok || err != nil {
			t.Fatalf("complete order %d: ok=%v err=%v", o.ID, ok, err)
		}
	}

	d, err := svc.Dashboard(ctx, 7)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.AccountTier != models.TierGold {
		t.Errorf("tier = %q, want gold", d.AccountTier)
	}
	if d.ActiveWebsites != 31 || d.CompletedOrders != 52 {
		t.Errorf("counters = %d/%d, want 31/52", d.ActiveWebsites, d.CompletedOrders)
	}
	if d.TotalEarnings != 4200 {
		t.Errorf("total earnings = %v, want 4200", d.TotalEarnings)
	}
	if d.PendingEarnings != 75 {
		t.Errorf("pending earnings = %v, want 75", d.PendingEarnings)
	}
}

func TestReconcileCountersRepairsDriftAndTier(t *testing.T) {
	// Stored counters drifted: the publisher claims gold numbers but the
	// authoritative collections say otherwise.
	svc, store, websites, orders, _ := newPublisherService(&models.Publisher{
		ID:                  3,
		AccountTier:         models.TierGold,
		ActiveWebsiteCount:  40,
		CompletedOrderCount: 60,
		TotalEarnings:       9000,
	})

	ctx := context.Background()
	w, err := websites.CreateWebsite(ctx, models.Website{PublisherID: 3, URL: "https://a.example", Status: models.WebsiteStatusPending})
	if err != nil {
		t.Fatalf("create website: %v", err)
	}
	if ok, _ := websites.Verify(ctx, w.ID, "dns", time.Now()); !ok {
		t.Fatalf("verify website")
	}
	o, err := orders.CreateOrder(ctx, models.Order{PublisherID: 3, WebsiteID: w.ID, Status: models.OrderStatusVerifying, Earnings: 120})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if ok, _ := orders.Complete(ctx, o.ID, time.Now()); !ok {
		t.Fatalf("complete order")
	}

	p, err := svc.ReconcileCounters(ctx, 3)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if p.ActiveWebsiteCount != 1 || p.CompletedOrderCount != 1 {
		t.Errorf("counters = %d/%d, want 1/1", p.ActiveWebsiteCount, p.CompletedOrderCount)
	}
	if p.TotalEarnings != 120 {
		t.Errorf("total earnings = %v, want 120", p.TotalEarnings)
	}
	if p.AccountTier != models.TierSilver {
		t.Errorf("tier = %q, want silver after repair", p.AccountTier)
	}
	if store.tierWrites == 0 {
		t.Errorf("expected a tier write during reconciliation")
	}
}

func TestDeactivateFlagsAccount(t *testing.T) {
	svc, store, _, _, _ := newPublisherService(&models.Publisher{ID: 5, Status: "active"})

	if err := svc.Deactivate(context.Background(), 5); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if store.statuses[5] != "deactivated" {
		t.Errorf("status = %q, want deactivated", store.statuses[5])
	}

	if err := svc.Deactivate(context.Background(), 99); err != models.ErrPublisherNotFound {
		t.Errorf("unknown publisher: err = %v, want ErrPublisherNotFound", err)
	}
}

func TestSaveFCMTokenRequiresToken(t *testing.T) {
	svc, store, _, _, _ := newPublisherService(&models.Publisher{ID: 5})

	if err := svc.SaveFCMToken(context.Background(), 5, ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if err := svc.SaveFCMToken(context.Background(), 5, "tok-1"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if store.fcmTokens[5] != "tok-1" {
		t.Errorf("token = %q, want tok-1", store.fcmTokens[5])
	}
}
