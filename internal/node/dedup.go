package node

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const deliveryKeyPrefix = "delivery:v1:"

// DeliveryGuard protects the at-most-once execution contract: the first
// caller for an envelope id wins, later callers are told the envelope was
// already consumed. Release undoes a reservation whose execution could not
// be committed, so the envelope stays deliverable.
type DeliveryGuard interface {
	FirstDelivery(ctx context.Context, messageID string) (bool, error)
	Release(ctx context.Context, messageID string) error
}

// RedisGuard records consumed envelope ids in Redis, surviving node
// restarts and shared across replicas.
type RedisGuard struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewRedisGuard constructs a guard on the given client. Entries expire
// after ttl; a zero ttl keeps them forever.
func NewRedisGuard(cache *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{cache: cache, ttl: ttl}
}

// FirstDelivery reserves the envelope id with SETNX; only the reserving
// caller may execute it.
func (g *RedisGuard) FirstDelivery(ctx context.Context, messageID string) (bool, error) {
	return g.cache.SetNX(ctx, deliveryKeyPrefix+messageID, "1", g.ttl).Result()
}

// Release drops the reservation for an envelope id.
func (g *RedisGuard) Release(ctx context.Context, messageID string) error {
	return g.cache.Del(ctx, deliveryKeyPrefix+messageID).Err()
}

// MemoryGuard is the in-process fallback used when no Redis is configured.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryGuard constructs an empty in-process guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

// FirstDelivery reports whether the envelope id is new and marks it seen.
func (g *MemoryGuard) FirstDelivery(_ context.Context, messageID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[messageID]; ok {
		return false, nil
	}
	g.seen[messageID] = struct{}{}
	return true, nil
}

// Release drops the reservation for an envelope id.
func (g *MemoryGuard) Release(_ context.Context, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, messageID)
	return nil
}
