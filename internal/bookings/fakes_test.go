package bookings

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bookly/internal/availability"
	"bookly/internal/payments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeRepository stores bookings in memory. With enforceCapacity unset it inserts
// without re-checking, leaving serialization entirely to the slot locker.
type fakeRepository struct {
	mu              sync.Mutex
	bookings        map[uuid.UUID]*BookingRequest
	enforceCapacity bool
	clock           time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		bookings:        make(map[uuid.UUID]*BookingRequest),
		enforceCapacity: true,
		clock:           time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepository) CreateWithCapacityGuard(ctx context.Context, booking *BookingRequest, maxCapacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enforceCapacity {
		taken := 0
		for _, b := range f.bookings {
			if b.BookingSlotID == booking.BookingSlotID && b.Status.IsActive() {
				taken += b.PartySize
			}
		}
		if taken+booking.PartySize > maxCapacity {
			return ErrSlotUnavailable
		}
	}

	f.insertLocked(booking)
	return nil
}

func (f *fakeRepository) insert(booking *BookingRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertLocked(booking)
}

func (f *fakeRepository) insertLocked(booking *BookingRequest) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	f.clock = f.clock.Add(time.Second)
	booking.CreatedAt = f.clock
	booking.UpdatedAt = f.clock
	copied := *booking
	f.bookings[booking.ID] = &copied
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepository) Transition(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	for column, value := range updates {
		switch column {
		case "status":
			b.Status = Status(value.(string))
		case "cancellation_reason":
			reason := value.(string)
			b.CancellationReason = &reason
		case "cancelled_at":
			at := value.(time.Time)
			b.CancelledAt = &at
		case "confirmed_at":
			if value == nil {
				b.ConfirmedAt = nil
				continue
			}
			at := value.(time.Time)
			b.ConfirmedAt = &at
		case "completed_at":
			at := value.(time.Time)
			b.CompletedAt = &at
		case "transaction_id":
			if value == nil {
				b.TransactionID = nil
				continue
			}
			id := value.(uuid.UUID)
			b.TransactionID = &id
		case "updated_at":
			b.UpdatedAt = value.(time.Time)
		}
	}
	return true, nil
}

func (f *fakeRepository) SetTransactionID(ctx context.Context, id, transactionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.TransactionID = &transactionID
	return nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *Status) ([]BookingRequest, error) {
	return f.filter(func(b *BookingRequest) bool { return b.UserID == userID }, status), nil
}

func (f *fakeRepository) ListByContent(ctx context.Context, contentID uuid.UUID, status *Status) ([]BookingRequest, error) {
	return f.filter(func(b *BookingRequest) bool { return b.ContentID == contentID }, status), nil
}

func (f *fakeRepository) ListConfirmedUntil(ctx context.Context, date time.Time, limit int) ([]BookingRequest, error) {
	cutoff := availability.FormatDate(date)
	confirmed := StatusConfirmed
	out := f.filter(func(b *BookingRequest) bool { return availability.FormatDate(b.Date) <= cutoff }, &confirmed)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) filter(match func(*BookingRequest) bool, status *Status) []BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []BookingRequest
	for _, b := range f.bookings {
		if match(b) && (status == nil || b.Status == *status) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRepository) ActivePartySizes(ctx context.Context, contentID uuid.UUID, from, to time.Time) (availability.BookingCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, hi := availability.FormatDate(from), availability.FormatDate(to)
	counts := make(availability.BookingCounts)
	for _, b := range f.bookings {
		day := availability.FormatDate(b.Date)
		if b.ContentID == contentID && b.Status.IsActive() && day >= lo && day <= hi {
			counts[b.BookingSlotID] += b.PartySize
		}
	}
	return counts, nil
}

// ruleStore serves a fixed rule set to the real availability service
type ruleStore struct {
	rules []availability.AvailabilityRule
}

func (r *ruleStore) CreateRule(ctx context.Context, rule *availability.AvailabilityRule) error {
	return errors.New("not supported")
}

func (r *ruleStore) GetRuleByID(ctx context.Context, id uuid.UUID) (*availability.AvailabilityRule, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *ruleStore) ListRules(ctx context.Context, contentID uuid.UUID) ([]availability.AvailabilityRule, error) {
	return r.ListActiveRules(ctx, contentID)
}

func (r *ruleStore) ListActiveRules(ctx context.Context, contentID uuid.UUID) ([]availability.AvailabilityRule, error) {
	var out []availability.AvailabilityRule
	for _, rule := range r.rules {
		if rule.ContentID == contentID && rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *ruleStore) ActiveRuleExists(ctx context.Context, contentID uuid.UUID, dayOfWeek int, startTime string) (bool, error) {
	return false, nil
}

func (r *ruleStore) SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	return errors.New("not supported")
}

func (r *ruleStore) UpsertException(ctx context.Context, exception *availability.RuleException) error {
	return errors.New("not supported")
}

func (r *ruleStore) DeleteException(ctx context.Context, ruleID uuid.UUID, date time.Time) (bool, error) {
	return false, errors.New("not supported")
}

type fakeTransactions struct {
	mu       sync.Mutex
	failOpen bool
	txns     map[uuid.UUID]*payments.Transaction
	order    []uuid.UUID
	settled  []uuid.UUID
	voided   []uuid.UUID
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{txns: make(map[uuid.UUID]*payments.Transaction)}
}

func (f *fakeTransactions) OpenBookingTransaction(ctx context.Context, input payments.OpenTransactionInput) (*payments.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOpen {
		return nil, errors.New("payment provider unreachable")
	}
	txn := &payments.Transaction{
		ID:        uuid.New(),
		UserID:    input.UserID,
		ContentID: input.ContentID,
		BookingID: input.BookingID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Status:    payments.TransactionStatusPending,
	}
	f.txns[txn.ID] = txn
	f.order = append(f.order, txn.ID)
	return txn, nil
}

func (f *fakeTransactions) MarkSucceeded(ctx context.Context, transactionID uuid.UUID, paymentReference string) (*payments.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[transactionID]
	if !ok {
		return nil, payments.ErrTransactionNotFound
	}
	switch txn.Status {
	case payments.TransactionStatusSucceeded:
		return txn, nil
	case payments.TransactionStatusFailed:
		return nil, payments.ErrTransactionFailed
	}
	txn.MarkSucceeded(paymentReference)
	f.settled = append(f.settled, txn.ID)
	return txn, nil
}

func (f *fakeTransactions) VoidPending(ctx context.Context, transactionID uuid.UUID, reason string) (*payments.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[transactionID]
	if !ok {
		return nil, payments.ErrTransactionNotFound
	}
	if txn.IsPending() {
		txn.MarkFailed(reason)
		f.voided = append(f.voided, txn.ID)
	}
	return txn, nil
}

func (f *fakeTransactions) FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*payments.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.order) - 1; i >= 0; i-- {
		txn := f.txns[f.order[i]]
		if txn.ContentID == contentID && txn.UserID == userID && txn.IsPending() {
			return txn, nil
		}
	}
	return nil, payments.ErrTransactionNotFound
}

// staleRepository answers the first GetByID of a booking with an earlier snapshot
type staleRepository struct {
	*fakeRepository
	snapshot *BookingRequest
}

func (s *staleRepository) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	if s.snapshot != nil && s.snapshot.ID == id {
		copied := *s.snapshot
		s.snapshot = nil
		return &copied, nil
	}
	return s.fakeRepository.GetByID(ctx, id)
}

type fakeWaitlist struct {
	calls []int
}

func (f *fakeWaitlist) NotifyWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string, availableCapacity int) (int, error) {
	f.calls = append(f.calls, availableCapacity)
	return 1, nil
}
