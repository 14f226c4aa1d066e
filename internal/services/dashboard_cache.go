package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"postlinkBack/internal/models"
)

// DashboardCache keeps assembled publisher dashboards in Redis for a short
// TTL. A nil cache or a Redis outage degrades to direct DB reads; cache
// errors are never surfaced to callers.
type DashboardCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{Client: client, TTL: time.Minute}
}

func dashboardKey(publisherID int) string {
	return fmt.Sprintf("dashboard:%d", publisherID)
}

func (c *DashboardCache) Get(ctx context.Context, publisherID int) (models.Dashboard, bool) {
	if c == nil || c.Client == nil {
		return models.Dashboard{}, false
	}
	raw, err := c.Client.Get(ctx, dashboardKey(publisherID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("dashboard cache: get for publisher %d failed: %v", publisherID, err)
		}
		return models.Dashboard{}, false
	}
	var d models.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Printf("dashboard cache: corrupt entry for publisher %d: %v", publisherID, err)
		return models.Dashboard{}, false
	}
	return d, true
}

func (c *DashboardCache) Set(ctx context.Context, publisherID int, d models.Dashboard) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		log.Printf("dashboard cache: marshal for publisher %d failed: %v", publisherID, err)
		return
	}
	if err := c.Client.Set(ctx, dashboardKey(publisherID), raw, c.TTL).Err(); err != nil {
		log.Printf("dashboard cache: set for publisher %d failed: %v", publisherID, err)
	}
}

// Invalidate drops the cached dashboard after any counter or invoice
// mutation.
func (c *DashboardCache) Invalidate(ctx context.Context, publisherID int) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Del(ctx, dashboardKey(publisherID)).Err(); err != nil {
		log.Printf("dashboard cache: invalidate for publisher %d failed: %v", publisherID, err)
	}
}
