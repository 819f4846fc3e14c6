package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Service is a JSON read-through cache over Redis
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// GetOrSet decodes key into dest, loading and storing it through fetcher on a miss
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error

	// Generation reads a counter that callers fold into their keys, 0 when never bumped
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)

	Ping(ctx context.Context) error
}

type service struct {
	rdb redis.Cmdable
}

func NewService(rdb redis.Cmdable) Service {
	return &service{rdb: rdb}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.store(ctx, key, raw, ttl)
}

func (s *service) store(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// GetOrSet treats a Redis read error like a miss. A failed write-back never
// fails the call; the next read simply loads again.
func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := s.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	_ = s.store(ctx, key, raw, ttl)

	return json.Unmarshal(raw, dest)
}

func (s *service) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := s.rdb.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("cache generation %s: %w", key, err)
	}
	return gen, nil
}

func (s *service) Bump(ctx context.Context, key string) (int64, error) {
	gen, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache bump %s: %w", key, err)
	}
	return gen, nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
