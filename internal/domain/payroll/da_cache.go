package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const daCachePrefix = "payroll:da:"

type cachedDA struct {
	Amount float64 `json:"amount"`
	Found  bool    `json:"found"`
}

// DACache is a read-through redis cache in front of a DAStore. Concurrent
// misses for the same date share one store lookup. A nil client disables
// caching.
type DACache struct {
	next   DAStore
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewDACache(next DAStore, client *redis.Client, ttl time.Duration) *DACache {
	return &DACache{next: next, client: client, ttl: ttl}
}

func (c *DACache) GetActiveDA(ctx context.Context, date time.Time) (float64, bool, error) {
	if c.client == nil {
		return c.next.GetActiveDA(ctx, date)
	}
	key := daCachePrefix + date.Format("2006-01-02")

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var hit cachedDA
		if err := json.Unmarshal(payload, &hit); err == nil {
			return hit.Amount, hit.Found, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("da cache read failed", "key", key, "err", err)
	}

	// The lookup is shared by every waiter, so one caller's cancellation
	// must not fail the rest.
	shared := context.WithoutCancel(ctx)
	value, err, _ := c.group.Do(key, func() (any, error) {
		amount, found, err := c.next.GetActiveDA(shared, date)
		if err != nil {
			return nil, err
		}
		entry := cachedDA{Amount: amount, Found: found}
		if raw, err := json.Marshal(entry); err == nil {
			if err := c.client.Set(shared, key, raw, c.ttl).Err(); err != nil {
				slog.Warn("da cache write failed", "key", key, "err", err)
			}
		}
		return entry, nil
	})
	if err != nil {
		return 0, false, err
	}
	entry := value.(cachedDA)
	return entry.Amount, entry.Found, nil
}
