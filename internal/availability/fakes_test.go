package availability

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bookly/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepository struct {
	mu        sync.Mutex
	rules     map[uuid.UUID]*AvailabilityRule
	listCalls int
	createErr error
	// afterList runs once, after a ListActiveRules snapshot was taken
	afterList func()
}

func newFakeRepository(rules ...AvailabilityRule) *fakeRepository {
	repo := &fakeRepository{rules: make(map[uuid.UUID]*AvailabilityRule)}
	for i := range rules {
		rule := rules[i]
		repo.rules[rule.ID] = &rule
	}
	return repo
}

func (f *fakeRepository) CreateRule(ctx context.Context, rule *AvailabilityRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	for i := range rule.Exceptions {
		rule.Exceptions[i].ID = uuid.New()
		rule.Exceptions[i].RuleID = rule.ID
	}
	copied := *rule
	f.rules[rule.ID] = &copied
	return nil
}

func (f *fakeRepository) GetRuleByID(ctx context.Context, id uuid.UUID) (*AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rule
	return &copied, nil
}

func (f *fakeRepository) ListRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rules []AvailabilityRule
	for _, rule := range f.rules {
		if rule.ContentID == contentID {
			rules = append(rules, *rule)
		}
	}
	return rules, nil
}

func (f *fakeRepository) ListActiveRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	f.mu.Lock()
	f.listCalls++
	var rules []AvailabilityRule
	for _, rule := range f.rules {
		if rule.ContentID == contentID && rule.IsActive {
			copied := *rule
			copied.Exceptions = append([]RuleException(nil), rule.Exceptions...)
			rules = append(rules, copied)
		}
	}
	hook := f.afterList
	f.afterList = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return rules, nil
}

func (f *fakeRepository) ActiveRuleExists(ctx context.Context, contentID uuid.UUID, dayOfWeek int, startTime string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rule := range f.rules {
		if rule.ContentID == contentID && rule.DayOfWeek == dayOfWeek && rule.StartTime == startTime && rule.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rule.IsActive = active
	return nil
}

func (f *fakeRepository) UpsertException(ctx context.Context, exception *RuleException) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[exception.RuleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range rule.Exceptions {
		if FormatDate(rule.Exceptions[i].Date) == FormatDate(exception.Date) {
			exception.ID = rule.Exceptions[i].ID
			rule.Exceptions[i] = *exception
			return nil
		}
	}
	exception.ID = uuid.New()
	rule.Exceptions = append(rule.Exceptions, *exception)
	return nil
}

func (f *fakeRepository) DeleteException(ctx context.Context, ruleID uuid.UUID, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[ruleID]
	if !ok {
		return false, nil
	}
	for i := range rule.Exceptions {
		if FormatDate(rule.Exceptions[i].Date) == FormatDate(date) {
			rule.Exceptions = append(rule.Exceptions[:i], rule.Exceptions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeLedger struct {
	counts BookingCounts
}

func (f *fakeLedger) ActivePartySizes(ctx context.Context, contentID uuid.UUID, from, to time.Time) (BookingCounts, error) {
	out := make(BookingCounts, len(f.counts))
	for k, v := range f.counts {
		out[k] = v
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	deletes     []string
	generations map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte), generations: make(map[string]int64)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
		f.deletes = append(f.deletes, key)
	}
	return nil
}

func (f *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := f.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := f.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return f.Get(ctx, key, dest)
}

func (f *fakeCache) Generation(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generations[key], nil
}

func (f *fakeCache) Bump(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generations[key]++
	return f.generations[key], nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }
