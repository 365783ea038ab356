// internal/api/cache.go
package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"submission-receipts/internal/common/logger"
)

// Cache is a read-through cache for owner list responses. Entries expire on
// TTL only; a stale window of at most TTL after an aggregate write is
// acceptable for the inbox view. Cache errors degrade to a database read.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

func ownerListKey(ownerID string) string {
	return "receipts:owner:" + ownerID
}

// GetOwnerList returns the cached list for an owner, or false on miss.
func (c *Cache) GetOwnerList(ctx context.Context, ownerID string) ([]ReceiptResponse, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, ownerListKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("Cache read failed, falling back to database", nil)
		return nil, false
	}

	var list []ReceiptResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		c.log.WithError(err).Warn("Discarding undecodable cache entry", nil)
		return nil, false
	}
	return list, true
}

// SetOwnerList stores the list for an owner with the configured TTL.
func (c *Cache) SetOwnerList(ctx context.Context, ownerID string, list []ReceiptResponse) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(list)
	if err != nil {
		c.log.WithError(err).Warn("Skipping cache write", nil)
		return
	}
	if err := c.client.Set(ctx, ownerListKey(ownerID), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Cache write failed", nil)
	}
}
