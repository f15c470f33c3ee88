package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "dashclient:session"

// RedisStore keeps credentials under a single Redis key, optionally with a TTL
// matching the refresh token lifetime.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func (r *RedisStore) Load(ctx context.Context) (*session.Credentials, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %v: %w", r.key, err)
	}
	ret := &session.Credentials{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", r.key, err)
	}
	return ret, nil
}

func (r *RedisStore) Save(ctx context.Context, credentials *session.Credentials) error {
	data, err := json.Marshal(credentials)
	if err != nil {
		return err
	}
	if err = r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %v: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %v: %w", r.key, err)
	}
	return nil
}

// NewRedisStore creates a Redis-backed store; ttl <= 0 keeps the record until deleted.
func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}
