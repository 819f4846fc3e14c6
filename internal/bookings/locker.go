package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookly/internal/shared/constants"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlotLocker serializes capacity reservation per slot.
// Lock blocks until the slot is free and returns the function that releases it.
type SlotLocker interface {
	Lock(ctx context.Context, slotID string) (unlock func(), err error)
}

// LocalSlotLocker is an in-process keyed mutex, used when Redis is not configured
type LocalSlotLocker struct {
	mu    sync.Mutex
	slots map[string]*slotGate
}

type slotGate struct {
	ch   chan struct{}
	refs int
}

func NewLocalSlotLocker() *LocalSlotLocker {
	return &LocalSlotLocker{slots: make(map[string]*slotGate)}
}

func (l *LocalSlotLocker) Lock(ctx context.Context, slotID string) (func(), error) {
	l.mu.Lock()
	gate, ok := l.slots[slotID]
	if !ok {
		gate = &slotGate{ch: make(chan struct{}, 1)}
		l.slots[slotID] = gate
	}
	gate.refs++
	l.mu.Unlock()

	select {
	case gate.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(slotID, gate)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-gate.ch
			l.release(slotID, gate)
		})
	}, nil
}

func (l *LocalSlotLocker) release(slotID string, gate *slotGate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gate.refs--
	if gate.refs == 0 {
		delete(l.slots, slotID)
	}
}

// releaseLockScript deletes the lock only if it still holds our token
var releaseLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisSlotLocker is a distributed per-slot lock shared by every API instance
type RedisSlotLocker struct {
	client redis.Cmdable
	log    *logger.Logger
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisSlotLocker creates a locker whose locks expire after ttl and whose callers give up after wait
func NewRedisSlotLocker(client *redis.Client, ttl, wait time.Duration, log *logger.Logger) *RedisSlotLocker {
	if ttl <= 0 {
		ttl = constants.TTL_REALTIME_LOCK
	}
	return &RedisSlotLocker{
		client: client,
		log:    log,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}
}

func (l *RedisSlotLocker) Lock(ctx context.Context, slotID string) (func(), error) {
	key := constants.SlotLockKey(slotID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
		}
		if acquired {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, ErrSlotBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			released, err := releaseLockScript.Run(ctx, l.client, []string{key}, token).Int64()
			switch {
			case err != nil:
				l.log.WarnContext(ctx, "Failed to release slot lock", "slot_id", slotID, "error", err.Error())
			case released == 0:
				l.log.WarnContext(ctx, "slot lock expired before release", "slot_id", slotID)
			}
		})
	}, nil
}
