// Package redisstore backs the challenge store with Redis. Values are
// JSON-serialized challenges; expiration is enforced server-side with
// the key's TTL, so a miss and an expired entry look the same.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mathcaptcha/captcha"
)

// Store is a Redis-backed challenge store. All keys are prefixed with
// keyPrefix followed by a colon separator.
type Store struct {
	rdb       *redis.Client
	keyPrefix string
}

// New wraps an existing Redis client. An empty keyPrefix stores keys
// unprefixed.
func New(rdb *redis.Client, keyPrefix string) *Store {
	return &Store{rdb: rdb, keyPrefix: keyPrefix}
}

var _ captcha.Store = (*Store)(nil)

func (s *Store) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Set serializes the challenge and stores it with a TTL derived from
// the absolute deadline.
func (s *Store) Set(ctx context.Context, key string, ch *captcha.Challenge, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("challenge %s expires in the past", key)
	}
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get returns the stored challenge, or captcha.ErrNotFound when the key
// is missing or its TTL has elapsed.
func (s *Store) Get(ctx context.Context, key string) (*captcha.Challenge, error) {
	data, err := s.rdb.Get(ctx, s.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, captcha.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var ch captcha.Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("unmarshal challenge %s: %w", key, err)
	}
	return &ch, nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
