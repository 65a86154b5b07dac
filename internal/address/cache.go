package address

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the most recently used delivery addresses per customer
// in a redis list, newest first.
type Cache struct {
	R   *redis.Client
	Max int64
	TTL time.Duration
}

func (c Cache) key(customerID string) string {
	return "address:recent:" + customerID
}

// Recent returns up to Max recently used addresses for the customer,
// most recent first.
func (c Cache) Recent(ctx context.Context, customerID string) ([]Address, error) {
	if c.R == nil {
		return nil, nil
	}
	raw, err := c.R.LRange(ctx, c.key(customerID), 0, c.max()-1).Result()
	if err != nil {
		return nil, fmt.Errorf("address cache lrange: %w", err)
	}
	out := make([]Address, 0, len(raw))
	for _, entry := range raw {
		var addr Address
		if err := json.Unmarshal([]byte(entry), &addr); err != nil {
			continue
		}
		out = append(out, addr)
	}
	return out, nil
}

// Remember pushes addr to the front of the customer's list, removing any
// identical entry first so re-use moves it to the top, and trims the list
// to Max entries.
func (c Cache) Remember(ctx context.Context, customerID string, addr Address) error {
	if c.R == nil {
		return nil
	}
	payload, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("address cache marshal: %w", err)
	}
	key := c.key(customerID)
	pipe := c.R.TxPipeline()
	pipe.LRem(ctx, key, 0, payload)
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, c.max()-1)
	if c.TTL > 0 {
		pipe.Expire(ctx, key, c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("address cache pipeline: %w", err)
	}
	return nil
}

func (c Cache) max() int64 {
	if c.Max <= 0 {
		return 5
	}
	return c.Max
}
