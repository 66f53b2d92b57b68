// Package feedback keeps the "last feedback hint" used to nudge judge
// system prompts. The hint is explicitly best-effort state: it is shared
// across all users, lives under a short TTL in Redis and vanishes on
// expiry or flush. It must never carry correctness weight.
package feedback

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	hintKey    = "feedback:hint"
	defaultTTL = 30 * time.Minute
)

type HintStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHintStore(rdb *redis.Client, ttl time.Duration) *HintStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &HintStore{rdb: rdb, ttl: ttl}
}

// Hint returns the most recent hint, or "" when none is stored or Redis
// is unreachable.
func (h *HintStore) Hint(ctx context.Context) string {
	if h == nil || h.rdb == nil {
		return ""
	}
	v, err := h.rdb.Get(ctx, hintKey).Result()
	if err != nil {
		return ""
	}
	return v
}

// Record stores the hint derived from the latest feedback event,
// overwriting any previous one.
func (h *HintStore) Record(ctx context.Context, hint string) error {
	if h == nil || h.rdb == nil {
		return nil
	}
	return h.rdb.Set(ctx, hintKey, hint, h.ttl).Err()
}
