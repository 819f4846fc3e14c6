package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bookly/internal/shared/config"
	"bookly/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault         RateLimitType = "default"
	RateLimitTypePublic          RateLimitType = "public"
	RateLimitTypeBooking         RateLimitType = "booking"
	RateLimitTypeBookingCritical RateLimitType = "booking_critical"
	RateLimitTypeOwner           RateLimitType = "owner"
	RateLimitTypeUser            RateLimitType = "user"
	RateLimitTypeHealth          RateLimitType = "health"
)

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Limiter decides whether one more request from clientIP fits its route class budget
type Limiter interface {
	IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error)
}

// policy maps route classes to their configured budgets
type policy struct {
	config config.RateLimitConfig
}

// bypass reports whether limiting is off for this client
func (p policy) bypass(clientIP string) bool {
	return !p.config.Enabled || slices.Contains(p.config.WhitelistedIPs, clientIP)
}

func (p policy) unlimited(limit int, now time.Time) *Result {
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
		ResetTime: now.Add(p.config.WindowDuration).Unix(),
	}
}

func (p policy) limit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return p.config.PublicRequests
	case RateLimitTypeBooking:
		return p.config.BookingRequests
	case RateLimitTypeBookingCritical:
		return p.config.BookingCriticalRequests
	case RateLimitTypeOwner:
		return p.config.OwnerRequests
	case RateLimitTypeUser:
		return p.config.UserRequests
	case RateLimitTypeHealth:
		return p.config.HealthRequests
	default:
		return p.config.DefaultRequests
	}
}

// slidingWindowScript trims the window, then records the request only if under the limit.
// Returns {count_after, remaining}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)
	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current_count + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {current_count + 1, limit - current_count - 1}
`)

// RateLimiter is a Redis sliding-window limiter keyed by client IP and route class
type RateLimiter struct {
	policy
	client redis.Cmdable
}

func NewRateLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{policy: policy{config: cfg}, client: client}
}

func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.limit(limitType)
	if r.bypass(clientIP) {
		return r.unlimited(limit, time.Now()), nil
	}

	return r.checkLimit(ctx, constants.RateLimitKey(clientIP, string(limitType)), limit)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := slidingWindowScript.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   int(values[0]) <= limit,
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}
