package constants

import (
	"fmt"
	"time"
)

// Redis key layout for the booking engine.
// Pattern: bookly:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (changes when an owner edits rules)
const (
	TTL_SEMI_STATIC_MEDIUM = 10 * time.Minute // availability rules per content
)

// Highly Dynamic (real-time sensitive)
const (
	TTL_REALTIME_LOCK = 5 * time.Second // per-slot reservation lock
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "bookly"
)

// ================== AVAILABILITY MODULE ==================

// RulesGenerationKey counts rule changes of one content; bumping it orphans cached rule sets
func RulesGenerationKey(contentID string) string {
	return fmt.Sprintf("%s:availability:rules_gen:%s", CACHE_PREFIX, contentID)
}

// RulesByContentKey caches the active rules (with exceptions) of one content at a generation
func RulesByContentKey(contentID string, generation int64) string {
	return fmt.Sprintf("%s:availability:rules:%s:%d", CACHE_PREFIX, contentID, generation)
}

// ================== BOOKINGS MODULE ==================

// SlotLockKey guards capacity reservation for one derived slot
func SlotLockKey(slotID string) string {
	return fmt.Sprintf("%s:bookings:slot_lock:%s", CACHE_PREFIX, slotID)
}

// ================== RATE LIMIT ==================

// RateLimitKey is the sliding window set for one client and limit class
func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", CACHE_PREFIX, clientIP, limitType)
}
