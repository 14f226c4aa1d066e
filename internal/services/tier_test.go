package services

import (
	"context"
	"testing"

	"postlinkBack/internal/models"
)

func TestTierOf_Thresholds(t *testing.T) {
	if tier := TierOf(0, 0); tier != models.TierSilver {
		t.Errorf("new publisher should be silver, got %q", tier)
	}
	if tier := TierOf(49, 100); tier != models.TierSilver {
		t.Errorf("49 orders stays silver regardless of websites, got %q", tier)
	}
	if tier := TierOf(100, 29); tier != models.TierSilver {
		t.Errorf("29 websites stays silver regardless of orders, got %q", tier)
	}
	if tier := TierOf(50, 30); tier != models.TierGold {
		t.Errorf("50/30 should be gold, got %q", tier)
	}
	if tier := TierOf(149, 99); tier != models.TierGold {
		t.Errorf("149/99 should be gold, got %q", tier)
	}
	if tier := TierOf(150, 100); tier != models.TierPremium {
		t.Errorf("150/100 should be premium, got %q", tier)
	}
	if tier := TierOf(1000, 99); tier != models.TierGold {
		t.Errorf("premium needs both thresholds, got %q", tier)
	}
}

func TestTierOf_Monotonic(t *testing.T) {
	rank := map[string]int{models.TierSilver: 0, models.TierGold: 1, models.TierPremium: 2}

	for orders := 0; orders <= 200; orders += 10 {
		for websites := 0; websites <= 120; websites += 10 {
			base := rank[TierOf(orders, websites)]
			if rank[TierOf(orders+10, websites)] < base {
				t.Fatalf("tier decreased when orders grew at (%d, %d)", orders, websites)
			}
			if rank[TierOf(orders, websites+10)] < base {
				t.Fatalf("tier decreased when websites grew at (%d, %d)", orders, websites)
			}
		}
	}
}

func TestRecalculateTier_PersistsOnlyOnChange(t *testing.T) {
	publisher := &models.Publisher{ID: 1, AccountTier: models.TierSilver, CompletedOrderCount: 10, ActiveWebsiteCount: 5}
	store := newFakePublisherStore(publisher)

	if err := RecalculateTier(context.Background(), store, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tierWrites != 0 {
		t.Errorf("unchanged tier should not be rewritten, got %d writes", store.tierWrites)
	}

	publisher.CompletedOrderCount = 60
	publisher.ActiveWebsiteCount = 40
	if err := RecalculateTier(context.Background(), store, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if publisher.AccountTier != models.TierGold {
		t.Errorf("expected gold after recalculation, got %q", publisher.AccountTier)
	}
	if store.tierWrites != 1 {
		t.Errorf("expected exactly one tier write, got %d", store.tierWrites)
	}
}
