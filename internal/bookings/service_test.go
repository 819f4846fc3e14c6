package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookly/internal/availability"
	"bookly/internal/payments"
	"bookly/internal/shared/config"
	"bookly/internal/shared/types"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	contentID    uuid.UUID
	repo         *fakeRepository
	transactions *fakeTransactions
	availability availability.Service
	service      Service
}

func newTestEnv(t *testing.T, capacity int) *testEnv {
	t.Helper()
	contentID := uuid.New()
	rules := &ruleStore{rules: []availability.AvailabilityRule{{
		ID:          uuid.New(),
		ContentID:   contentID,
		DayOfWeek:   int(time.Monday),
		StartTime:   "09:00",
		EndTime:     "17:00",
		MaxCapacity: capacity,
		Price:       20,
		Currency:    "USD",
		IsActive:    true,
	}}}

	repo := newFakeRepository()
	cfg := &config.Config{Booking: config.BookingConfig{DefaultCurrency: "USD", MaxRangeDays: 366}}
	availabilityService := availability.NewService(rules, repo, nil, cfg, logger.NewNop())
	transactions := newFakeTransactions()

	return &testEnv{
		contentID:    contentID,
		repo:         repo,
		transactions: transactions,
		availability: availabilityService,
		service:      NewService(repo, availabilityService, transactions, NewLocalSlotLocker(), logger.NewNop()),
	}
}

func monday(t *testing.T) time.Time {
	t.Helper()
	d, err := availability.ParseDate("2025-03-03")
	require.NoError(t, err)
	return d
}

func bookingInput(t *testing.T, partySize int) CreateBookingInput {
	return CreateBookingInput{
		Date:        monday(t),
		StartTime:   "09:00",
		EndTime:     "17:00",
		PartySize:   partySize,
		ContactInfo: types.ContactInfo{Name: "Ada", Email: "ada@example.com"},
	}
}

func TestCreateBookingRequest_PricesAndOpensTransaction(t *testing.T) {
	env := newTestEnv(t, 4)
	userID := uuid.New()

	booking, err := env.service.CreateBookingRequest(context.Background(), userID, env.contentID, bookingInput(t, 3))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, 60.0, booking.TotalPrice)
	assert.Equal(t, "USD", booking.Currency)
	assert.Equal(t, availability.SlotID(env.contentID, monday(t), "09:00"), booking.BookingSlotID)
	require.NotNil(t, booking.TransactionID)

	txn := env.transactions.txns[*booking.TransactionID]
	require.NotNil(t, txn)
	assert.Equal(t, 60.0, txn.Amount)
	assert.Equal(t, booking.ID, txn.BookingID)

	stored, err := env.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.TransactionID, stored.TransactionID)

	check, err := env.availability.CheckSlotAvailability(context.Background(), env.contentID, monday(t), "09:00", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, check.Slot.CurrentBookings)
}

func TestCreateBookingRequest_RejectsWhenItDoesNotFit(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	_, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 5))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, "This time slot is no longer available", err.Error())

	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 3))
	require.NoError(t, err)
	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 2))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	tuesday := bookingInput(t, 1)
	tuesday.Date = monday(t).AddDate(0, 0, 1)
	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, tuesday)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	mismatched := bookingInput(t, 1)
	mismatched.EndTime = "12:00"
	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, mismatched)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBookingRequest_TransactionFailureReleasesCapacity(t *testing.T) {
	env := newTestEnv(t, 4)
	env.transactions.failOpen = true
	ctx := context.Background()

	_, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 4))
	assert.ErrorIs(t, err, ErrTransactionOpenFailed)

	all, err := env.service.GetContentBookings(ctx, env.contentID, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, StatusCancelled, all[0].Status)
	require.NotNil(t, all[0].CancellationReason)
	assert.Equal(t, "payment transaction could not be opened", *all[0].CancellationReason)

	env.transactions.failOpen = false
	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 4))
	assert.NoError(t, err)
}

func TestConfirmBooking_SettlesLinkedTransaction(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	userID := uuid.New()

	first, err := env.service.CreateBookingRequest(ctx, userID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	_, err = env.service.CreateBookingRequest(ctx, userID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)

	confirmed, err := env.service.ConfirmBooking(ctx, first.ID, "pay_123")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// The older booking's own transaction is settled, not the user's newest one
	assert.Equal(t, []uuid.UUID{*first.TransactionID}, env.transactions.settled)
}

func TestConfirmBooking_FallsBackToLatestPendingTransaction(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	userID := uuid.New()

	created, err := env.service.CreateBookingRequest(ctx, userID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)

	legacy := &BookingRequest{
		UserID:        userID,
		ContentID:     env.contentID,
		BookingSlotID: created.BookingSlotID,
		Date:          created.Date,
		StartTime:     "09:00",
		EndTime:       "17:00",
		PartySize:     1,
		Status:        StatusPending,
	}
	env.repo.insert(legacy)

	confirmed, err := env.service.ConfirmBooking(ctx, legacy.ID, "pay_legacy")
	require.NoError(t, err)
	require.NotNil(t, confirmed.TransactionID)
	assert.Equal(t, *created.TransactionID, *confirmed.TransactionID)
	assert.Equal(t, []uuid.UUID{*created.TransactionID}, env.transactions.settled)
}

func TestConfirmBooking_WithoutPaymentReference(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)

	confirmed, err := env.service.ConfirmBooking(ctx, booking.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Empty(t, env.transactions.settled)
}

func TestConfirmBooking_AfterConcurrentCancelLeavesTransactionUnsettled(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	snapshot, err := env.repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)

	_, err = env.service.CancelBooking(ctx, booking.ID, "")
	require.NoError(t, err)

	stale := NewService(&staleRepository{fakeRepository: env.repo, snapshot: snapshot},
		env.availability, env.transactions, NewLocalSlotLocker(), logger.NewNop())
	_, err = stale.ConfirmBooking(ctx, booking.ID, "pay_1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := env.repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Empty(t, env.transactions.settled)
	assert.Equal(t, payments.TransactionStatusFailed, env.transactions.txns[*booking.TransactionID].Status)
}

func TestCancelBooking_VoidsPendingTransaction(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	userID := uuid.New()

	booking, err := env.service.CreateBookingRequest(ctx, userID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	_, err = env.service.CancelBooking(ctx, booking.ID, "no longer needed")
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{*booking.TransactionID}, env.transactions.voided)
	txn := env.transactions.txns[*booking.TransactionID]
	require.NotNil(t, txn.FailureReason)
	assert.Equal(t, "booking cancelled", *txn.FailureReason)

	// a booking without its own transaction finds nothing left to settle
	legacy := &BookingRequest{
		UserID:        userID,
		ContentID:     env.contentID,
		BookingSlotID: booking.BookingSlotID,
		Date:          booking.Date,
		StartTime:     "09:00",
		EndTime:       "17:00",
		PartySize:     1,
		Status:        StatusPending,
	}
	env.repo.insert(legacy)

	confirmed, err := env.service.ConfirmBooking(ctx, legacy.ID, "pay_legacy")
	require.NoError(t, err)
	assert.Nil(t, confirmed.TransactionID)
	assert.Empty(t, env.transactions.settled)
}

func TestCancelBooking_KeepsSettledTransaction(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	_, err = env.service.ConfirmBooking(ctx, booking.ID, "pay_1")
	require.NoError(t, err)
	_, err = env.service.CancelBooking(ctx, booking.ID, "")
	require.NoError(t, err)

	assert.Empty(t, env.transactions.voided)
	assert.Equal(t, payments.TransactionStatusSucceeded, env.transactions.txns[*booking.TransactionID].Status)
}

func TestConfirmBooking_SettlementFailureRevertsToPending(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	env.transactions.txns[*booking.TransactionID].MarkFailed("declined")

	_, err = env.service.ConfirmBooking(ctx, booking.ID, "pay_1")
	assert.ErrorIs(t, err, payments.ErrTransactionFailed)

	stored, err := env.repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.ConfirmedAt)
	assert.Equal(t, booking.TransactionID, stored.TransactionID)
}

func TestStatusTransitions(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 2))
	require.NoError(t, err)

	_, err = env.service.ConfirmBooking(ctx, booking.ID, "pay")
	require.NoError(t, err)

	_, err = env.service.ConfirmBooking(ctx, booking.ID, "pay")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := env.service.CancelBooking(ctx, booking.ID, "  change of plans ")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "change of plans", *cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = env.service.CancelBooking(ctx, booking.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.service.MarkNoShow(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.service.CancelBooking(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// Cancelled capacity is free again
	_, err = env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 4))
	assert.NoError(t, err)
}

func TestMarkNoShow(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	booking, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 2))
	require.NoError(t, err)

	noShow, err := env.service.MarkNoShow(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, noShow.Status)

	_, err = env.service.ConfirmBooking(ctx, booking.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetUserBookings_OrderAndFilter(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()
	userID := uuid.New()

	later := bookingInput(t, 1)
	later.Date = monday(t).AddDate(0, 0, 14)
	earlier := bookingInput(t, 1)
	middle := bookingInput(t, 1)
	middle.Date = monday(t).AddDate(0, 0, 7)

	for _, input := range []CreateBookingInput{later, earlier, middle} {
		_, err := env.service.CreateBookingRequest(ctx, userID, env.contentID, input)
		require.NoError(t, err)
	}
	_, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, earlier)
	require.NoError(t, err)

	bookings, err := env.service.GetUserBookings(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, "2025-03-03", availability.FormatDate(bookings[0].Date))
	assert.Equal(t, "2025-03-10", availability.FormatDate(bookings[1].Date))
	assert.Equal(t, "2025-03-17", availability.FormatDate(bookings[2].Date))

	_, err = env.service.ConfirmBooking(ctx, bookings[1].ID, "")
	require.NoError(t, err)

	confirmed := StatusConfirmed
	filtered, err := env.service.GetUserBookings(ctx, userID, &confirmed)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, bookings[1].ID, filtered[0].ID)

	bogus := Status("archived")
	_, err = env.service.GetUserBookings(ctx, userID, &bogus)
	assert.Error(t, err)

	all, err := env.service.GetContentBookings(ctx, env.contentID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCompleteEndedBookings(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()

	ended, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	_, err = env.service.ConfirmBooking(ctx, ended.ID, "")
	require.NoError(t, err)

	pending, err := env.service.CreateBookingRequest(ctx, uuid.New(), env.contentID, bookingInput(t, 1))
	require.NoError(t, err)

	now := time.Date(2025, time.March, 3, 16, 0, 0, 0, time.UTC)
	completed, err := env.service.CompleteEndedBookings(ctx, now, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)

	now = time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC)
	completed, err = env.service.CompleteEndedBookings(ctx, now, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	got, err := env.service.GetBooking(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	got, err = env.service.GetBooking(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	// Completed bookings no longer count against the slot
	check, err := env.availability.CheckSlotAvailability(ctx, env.contentID, monday(t), "09:00", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, check.Slot.CurrentBookings)
}

func TestCreateBookingRequest_ConcurrentRequestsNeverOverbook(t *testing.T) {
	const capacity = 5
	const requests = 20

	env := newTestEnv(t, capacity)
	// Only the slot locker stands between the requests
	env.repo.enforceCapacity = false

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0

	input := bookingInput(t, 1)
	start := make(chan struct{})
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.service.CreateBookingRequest(context.Background(), uuid.New(), env.contentID, input)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrSlotUnavailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, capacity, accepted)
	assert.Equal(t, requests-capacity, rejected)

	check, err := env.availability.CheckSlotAvailability(context.Background(), env.contentID, monday(t), "09:00", 1)
	require.NoError(t, err)
	assert.Equal(t, capacity, check.Slot.CurrentBookings)
	assert.False(t, check.Slot.IsAvailable)
}
