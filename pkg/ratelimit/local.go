package ratelimit

import (
	"context"
	"sync"
	"time"

	"bookly/internal/shared/config"

	"golang.org/x/time/rate"
)

// sweepEvery is how many checks pass between evictions of idle buckets
const sweepEvery = 1024

// LocalRateLimiter is a per-process token bucket limiter used when Redis is
// disabled. Each client and route class refills its full budget over one window.
type LocalRateLimiter struct {
	policy
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	checks  int
}

func NewLocalRateLimiter(cfg config.RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{policy: policy{config: cfg}, buckets: make(map[string]*rate.Limiter)}
}

func (l *LocalRateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	now := time.Now()
	limit := l.limit(limitType)
	if l.bypass(clientIP) {
		return l.unlimited(limit, now), nil
	}
	if limit <= 0 {
		return &Result{Allowed: false, Limit: limit, ResetTime: now.Add(l.config.WindowDuration).Unix()}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := clientIP + "|" + string(limitType)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Every(l.config.WindowDuration/time.Duration(limit)), limit)
		l.buckets[key] = bucket
	}
	allowed := bucket.AllowN(now, 1)

	l.checks++
	if l.checks%sweepEvery == 0 {
		l.evictFull(now)
	}

	remaining := int(bucket.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(l.config.WindowDuration).Unix(),
	}, nil
}

// evictFull drops buckets that have refilled completely; a new bucket behaves the same.
// Caller holds mu.
func (l *LocalRateLimiter) evictFull(now time.Time) {
	for key, bucket := range l.buckets {
		if bucket.TokensAt(now) >= float64(bucket.Burst()) {
			delete(l.buckets, key)
		}
	}
}
