package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers markers ended by logout until they would have
// expired anyway, so a copied cookie stops working after sign-out
type Revocations interface {
	Revoke(ctx context.Context, markerID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, markerID string) (bool, error)
}

// RedisRevocations implements Revocations using Redis
type RedisRevocations struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisRevocations creates a Redis-backed revocation list on an existing client
func NewRedisRevocations(client redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{
		client:    client,
		keyPrefix: "dashboard:session:revoked:",
	}
}

// Revoke stores markerID with the marker's remaining lifetime as TTL
func (r *RedisRevocations) Revoke(ctx context.Context, markerID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.keyPrefix+markerID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session marker: %w", err)
	}
	return nil
}

// IsRevoked checks whether markerID was revoked
func (r *RedisRevocations) IsRevoked(ctx context.Context, markerID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+markerID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}

var _ Revocations = (*RedisRevocations)(nil)

// InMemoryRevocations is the single-instance Revocations
type InMemoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryRevocations creates an empty in-memory revocation list
func NewInMemoryRevocations() *InMemoryRevocations {
	return &InMemoryRevocations{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke records markerID until ttl elapses
func (r *InMemoryRevocations) Revoke(_ context.Context, markerID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[markerID] = r.now().Add(ttl)
	return nil
}

// IsRevoked reports whether markerID is revoked; expired entries are dropped
func (r *InMemoryRevocations) IsRevoked(_ context.Context, markerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.entries[markerID]
	if !ok {
		return false, nil
	}
	if r.now().After(until) {
		delete(r.entries, markerID)
		return false, nil
	}
	return true, nil
}

// Size returns the number of tracked entries
func (r *InMemoryRevocations) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

var _ Revocations = (*InMemoryRevocations)(nil)
