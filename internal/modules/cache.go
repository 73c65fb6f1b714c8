package modules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps each company's enabled module set in Redis with a TTL. It
// is an injected dependency of the Service; a nil cache degrades to
// straight repository reads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetEnabled returns the cached enabled set for a company. The second
// return reports a cache hit.
func (c *Cache) GetEnabled(ctx context.Context, companyID int64) ([]string, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, false, nil
	}
	return codes, true, nil
}

// SetEnabled stores the enabled set for a company.
func (c *Cache) SetEnabled(ctx context.Context, companyID int64, codes []string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if codes == nil {
		codes = []string{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(companyID), raw, c.ttl).Err()
}

// Invalidate drops the cached set for a company.
func (c *Cache) Invalidate(ctx context.Context, companyID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(companyID)).Err()
}

func (c *Cache) key(companyID int64) string {
	return fmt.Sprintf("modules:enabled:%d", companyID)
}
