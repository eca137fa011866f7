package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

// SlotCache is a read-through cache for computed slot lists. Entries may go
// stale between computation and booking; the create path re-validates against
// live data, so a short TTL is enough.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *SlotCache {
	return &SlotCache{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func slotKey(resourceID string, from, to time.Time) string {
	return fmt.Sprintf("slots:%s:%s:%s", resourceID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (c *SlotCache) Get(ctx context.Context, resourceID string, from, to time.Time) ([]model.AvailableSlot, bool) {
	data, err := c.rdb.Get(ctx, slotKey(resourceID, from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Slot cache read failed", "resource_id", resourceID, "error", err)
		}
		return nil, false
	}

	var slots []model.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.log.Warn("Slot cache entry corrupted, dropping", "resource_id", resourceID, "error", err)
		c.rdb.Del(ctx, slotKey(resourceID, from, to))
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, resourceID string, from, to time.Time, slots []model.AvailableSlot) {
	data, err := json.Marshal(slots)
	if err != nil {
		c.log.Warn("Failed to encode slot cache entry", "resource_id", resourceID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, slotKey(resourceID, from, to), data, c.ttl).Err(); err != nil {
		c.log.Warn("Slot cache write failed", "resource_id", resourceID, "error", err)
	}
}

// InvalidateResource drops every cached range for the resource. Called after
// any committed state change (create, cancel).
func (c *SlotCache) InvalidateResource(ctx context.Context, resourceID string) {
	pattern := fmt.Sprintf("slots:%s:*", resourceID)

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warn("Slot cache scan failed", "resource_id", resourceID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("Slot cache invalidation failed", "resource_id", resourceID, "error", err)
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
