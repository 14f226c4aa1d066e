package services

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNextOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	got := NextOrderNumber(now)

	prefix := fmt.Sprintf("ORD-%d-", now.UnixMilli())
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("order number %q missing prefix %q", got, prefix)
	}
	if got == prefix {
		t.Fatalf("order number %q has no sequence", got)
	}
}

func TestNextOrderNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NextOrderNumber(now)
		if seen[n] {
			t.Fatalf("duplicate order number %q", n)
		}
		seen[n] = true
	}
}

func TestNextTicketNumber_Format(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	got := NextTicketNumber(now)
	if !strings.HasPrefix(got, fmt.Sprintf("TKT-%d-", now.UnixMilli())) {
		t.Fatalf("ticket number %q has wrong shape", got)
	}
}
