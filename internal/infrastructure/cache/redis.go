package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/procurement"
	"github.com/redis/go-redis/v9"
)

const (
	preferenceKeyPrefix = "dashboard:prefs:"
	decisionKeyPrefix   = "dashboard:procurement:decisions:"
	businessNameField   = "businessName"
)

// RedisPreferenceStore keeps preferences in one Redis hash per identity
type RedisPreferenceStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisPreferenceStore creates a store on an existing client. A positive
// ttl is refreshed on every write.
func NewRedisPreferenceStore(client redis.Cmdable, ttl time.Duration) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client, ttl: ttl}
}

func (s *RedisPreferenceStore) key(email string) string {
	return preferenceKeyPrefix + email
}

// BusinessName returns the stored name, or "" if none
func (s *RedisPreferenceStore) BusinessName(ctx context.Context, email string) (string, error) {
	name, err := s.client.HGet(ctx, s.key(email), businessNameField).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read business name: %w", err)
	}
	return name, nil
}

// SetBusinessName stores name for email; an empty name clears it
func (s *RedisPreferenceStore) SetBusinessName(ctx context.Context, email, name string) error {
	key := s.key(email)
	if name == "" {
		if err := s.client.HDel(ctx, key, businessNameField).Err(); err != nil {
			return fmt.Errorf("failed to clear business name: %w", err)
		}
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, businessNameField, name)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store business name: %w", err)
	}
	return nil
}

// Clear removes every preference of email
func (s *RedisPreferenceStore) Clear(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

var _ identity.PreferenceStore = (*RedisPreferenceStore)(nil)

// RedisDecisionStore keeps procurement decisions in one Redis hash per
// identity, keyed by request id with JSON values
type RedisDecisionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisDecisionStore creates a store on an existing client
func NewRedisDecisionStore(client redis.Cmdable, ttl time.Duration) *RedisDecisionStore {
	return &RedisDecisionStore{client: client, ttl: ttl}
}

func (s *RedisDecisionStore) key(email string) string {
	return decisionKeyPrefix + email
}

// Put records d, replacing an earlier decision on the same request
func (s *RedisDecisionStore) Put(ctx context.Context, email string, d procurement.Decision) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}
	key := s.key(email)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, d.RequestID, data)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store decision: %w", err)
	}
	return nil
}

// All returns the decisions of email. Entries that fail to decode are skipped.
func (s *RedisDecisionStore) All(ctx context.Context, email string) (map[string]procurement.Decision, error) {
	raw, err := s.client.HGetAll(ctx, s.key(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read decisions: %w", err)
	}
	out := make(map[string]procurement.Decision, len(raw))
	for id, v := range raw {
		var d procurement.Decision
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			continue
		}
		out[id] = d
	}
	return out, nil
}

// Forget drops the decisions on requestIDs
func (s *RedisDecisionStore) Forget(ctx context.Context, email string, requestIDs ...string) error {
	if len(requestIDs) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key(email), requestIDs...).Err(); err != nil {
		return fmt.Errorf("failed to forget decisions: %w", err)
	}
	return nil
}

var _ procurement.DecisionStore = (*RedisDecisionStore)(nil)
