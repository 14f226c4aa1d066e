package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"postlinkBack/internal/models"
)

type linkCheckStore interface {
	ListCompletedForLinkCheck(ctx context.Context, olderThan time.Time) ([]models.Order, error)
	RecordLinkCheck(ctx context.Context, orderID int, live bool, at time.Time) error
}

// LinkCheckService re-verifies that completed placements are still live.
// It only reads lifecycle state and writes the liveness fields; order
// status is never touched here.
type LinkCheckService struct {
	OrderRepo linkCheckStore
	Client    *http.Client
}

func NewLinkCheckService(repo linkCheckStore) *LinkCheckService {
	return &LinkCheckService{
		OrderRepo: repo,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// RunOnce checks every completed order not verified in the last 24h.
// Returns the number of URLs checked.
func (s *LinkCheckService) RunOnce(ctx context.Context) (int, error) {
	orders, err := s.OrderRepo.ListCompletedForLinkCheck(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}

	checked := 0
	for _, order := range orders {
		if order.SubmittedURL == "" {
			continue
		}
		live := s.checkURL(ctx, order.SubmittedURL)
		if err := s.OrderRepo.RecordLinkCheck(ctx, order.ID, live, time.Now()); err != nil {
			log.Printf("link check: recording order %d failed: %v", order.ID, err)
			continue
		}
		checked++
	}
	return checked, nil
}

func (s *LinkCheckService) checkURL(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}
