package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookly/internal/availability"
	"bookly/internal/payments"
	"bookly/internal/shared/apperr"
	"bookly/internal/shared/types"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionService is the payment subsystem as seen by the booking flow
type TransactionService interface {
	OpenBookingTransaction(ctx context.Context, input payments.OpenTransactionInput) (*payments.Transaction, error)
	MarkSucceeded(ctx context.Context, transactionID uuid.UUID, paymentReference string) (*payments.Transaction, error)
	VoidPending(ctx context.Context, transactionID uuid.UUID, reason string) (*payments.Transaction, error)
	FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*payments.Transaction, error)
}

type Service interface {
	// Booking lifecycle
	CreateBookingRequest(ctx context.Context, userID, contentID uuid.UUID, input CreateBookingInput) (*BookingRequest, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*BookingRequest, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingRequest, error)
	MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*BookingRequest, error)
	CompleteEndedBookings(ctx context.Context, now time.Time, limit int) (int, error)

	// Reads
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingRequest, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, status *Status) ([]BookingRequest, error)
	GetContentBookings(ctx context.Context, contentID uuid.UUID, status *Status) ([]BookingRequest, error)
}

type service struct {
	repo         Repository
	availability availability.Service
	transactions TransactionService
	locker       SlotLocker
	log          *logger.Logger
}

func NewService(repo Repository, availabilityService availability.Service, transactions TransactionService, locker SlotLocker, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		availability: availabilityService,
		transactions: transactions,
		locker:       locker,
		log:          log,
	}
}

func (s *service) CreateBookingRequest(ctx context.Context, userID, contentID uuid.UUID, input CreateBookingInput) (*BookingRequest, error) {
	if input.PartySize <= 0 {
		return nil, apperr.Invalid("party_size must be at least 1")
	}
	if !availability.ValidClock(input.StartTime) {
		return nil, apperr.Invalid("start_time must be HH:MM")
	}
	if input.EndTime != "" && !availability.ValidClock(input.EndTime) {
		return nil, apperr.Invalid("end_time must be HH:MM")
	}

	date := availability.TruncateDate(input.Date)
	slotID := availability.SlotID(contentID, date, input.StartTime)

	booking, err := s.reserve(ctx, userID, contentID, slotID, date, input)
	if err != nil {
		return nil, err
	}

	if err := s.openTransaction(ctx, booking); err != nil {
		bookingRequestsTotal.WithLabelValues("payment_failed").Inc()
		return nil, err
	}

	bookingRequestsTotal.WithLabelValues("accepted").Inc()
	s.log.LogBookingCreated(ctx, booking.ID.String(), slotID, userID.String(), booking.PartySize)
	return booking, nil
}

// reserve checks capacity and persists the pending booking while holding the slot lock
func (s *service) reserve(ctx context.Context, userID, contentID uuid.UUID, slotID string, date time.Time, input CreateBookingInput) (*BookingRequest, error) {
	waitStart := time.Now()
	unlock, err := s.locker.Lock(ctx, slotID)
	slotLockWaitSeconds.Observe(time.Since(waitStart).Seconds())
	if err != nil {
		bookingRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	defer unlock()

	check, err := s.availability.CheckSlotAvailability(ctx, contentID, date, input.StartTime, input.PartySize)
	if err != nil {
		bookingRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !check.Available {
		bookingRequestsTotal.WithLabelValues("unavailable").Inc()
		s.log.LogBookingRejected(ctx, slotID, userID.String(), input.PartySize)
		return nil, ErrSlotUnavailable
	}

	slot := check.Slot
	if input.EndTime != "" && input.EndTime != slot.EndTime {
		return nil, apperr.Invalid(fmt.Sprintf("end_time %s does not match the slot ending at %s", input.EndTime, slot.EndTime))
	}

	booking := &BookingRequest{
		UserID:             userID,
		ContentID:          contentID,
		BookingSlotID:      slot.ID,
		Date:               date,
		StartTime:          slot.StartTime,
		EndTime:            slot.EndTime,
		PartySize:          input.PartySize,
		TotalPrice:         slot.Price * float64(input.PartySize),
		Currency:           slot.Currency,
		Status:             StatusPending,
		SpecialRequests:    optionalString(input.SpecialRequests),
		ContactInfo:        input.ContactInfo,
		RecurringBookingID: input.RecurringBookingID,
	}

	if err := s.repo.CreateWithCapacityGuard(ctx, booking, slot.MaxCapacity); err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			bookingRequestsTotal.WithLabelValues("unavailable").Inc()
			s.log.LogBookingRejected(ctx, slotID, userID.String(), input.PartySize)
			return nil, ErrSlotUnavailable
		}
		bookingRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

// openTransaction asks the payment subsystem for a transaction. When that fails the
// booking is cancelled so it stops holding capacity.
func (s *service) openTransaction(ctx context.Context, booking *BookingRequest) error {
	txn, err := s.transactions.OpenBookingTransaction(ctx, payments.OpenTransactionInput{
		UserID:    booking.UserID,
		ContentID: booking.ContentID,
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		Currency:  booking.Currency,
		Metadata: types.JSONMap{
			"booking_slot_id": booking.BookingSlotID,
			"party_size":      booking.PartySize,
		},
	})
	if err != nil {
		s.log.ErrorWithContext(ctx, "Failed to open booking transaction", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		if _, cancelErr := s.cancel(ctx, booking, compensationReason); cancelErr != nil {
			s.log.ErrorWithContext(ctx, "Failed to release booking after transaction failure", cancelErr, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}
		return fmt.Errorf("%w: %v", ErrTransactionOpenFailed, err)
	}

	booking.TransactionID = &txn.ID
	if err := s.repo.SetTransactionID(ctx, booking.ID, txn.ID); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to link transaction to booking", err, map[string]interface{}{
			"booking_id":     booking.ID.String(),
			"transaction_id": txn.ID.String(),
		})
	}
	return nil
}

// ConfirmBooking moves a pending booking to confirmed and then settles its transaction.
// A failed settlement puts the booking back to pending so the confirmation can be retried.
func (s *service) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*BookingRequest, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != StatusPending {
		return nil, invalidTransition(booking.Status, StatusConfirmed)
	}

	ref := strings.TrimSpace(paymentReference)
	var settleID *uuid.UUID
	linked := booking.TransactionID != nil
	if ref != "" {
		settleID, err = s.settlementTarget(ctx, booking)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	updates := map[string]interface{}{"confirmed_at": now}
	if settleID != nil && !linked {
		updates["transaction_id"] = *settleID
	}
	if err := s.transition(ctx, booking, StatusConfirmed, updates); err != nil {
		return nil, err
	}
	booking.ConfirmedAt = &now

	if settleID != nil {
		if _, err := s.transactions.MarkSucceeded(ctx, *settleID, ref); err != nil {
			s.revertConfirmation(ctx, booking, !linked)
			return nil, fmt.Errorf("failed to settle transaction: %w", err)
		}
		booking.TransactionID = settleID
	}

	transactionID := ""
	if booking.TransactionID != nil {
		transactionID = booking.TransactionID.String()
	}
	s.log.LogBookingConfirmed(ctx, booking.ID.String(), transactionID)
	return booking, nil
}

// settlementTarget picks the transaction a confirmation settles. Bookings created without a
// linked transaction fall back to the user's newest pending transaction for the content.
func (s *service) settlementTarget(ctx context.Context, booking *BookingRequest) (*uuid.UUID, error) {
	if booking.TransactionID != nil {
		return booking.TransactionID, nil
	}
	txn, err := s.transactions.FindLatestPending(ctx, booking.ContentID, booking.UserID)
	if err != nil {
		if errors.Is(err, payments.ErrTransactionNotFound) {
			s.log.WarnContext(ctx, "no pending transaction to settle", "booking_id", booking.ID.String())
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending transaction: %w", err)
	}
	return &txn.ID, nil
}

// revertConfirmation undoes a confirmation whose settlement failed, unless the booking
// has moved on since
func (s *service) revertConfirmation(ctx context.Context, booking *BookingRequest, unlink bool) {
	updates := map[string]interface{}{
		"status":       string(StatusPending),
		"confirmed_at": nil,
		"updated_at":   time.Now(),
	}
	if unlink {
		updates["transaction_id"] = nil
	}
	applied, err := s.repo.Transition(ctx, booking.ID, StatusConfirmed, updates)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Failed to revert booking confirmation", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		return
	}
	if !applied {
		s.log.WarnContext(ctx, "booking changed before its confirmation could be reverted", "booking_id", booking.ID.String())
		return
	}
	booking.Status = StatusPending
	booking.ConfirmedAt = nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingRequest, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking, reason)
}

func (s *service) cancel(ctx context.Context, booking *BookingRequest, reason string) (*BookingRequest, error) {
	now := time.Now()
	updates := map[string]interface{}{"cancelled_at": now}
	reasonPtr := optionalString(reason)
	if reasonPtr != nil {
		updates["cancellation_reason"] = *reasonPtr
	}

	if err := s.transition(ctx, booking, StatusCancelled, updates); err != nil {
		return nil, err
	}
	booking.CancelledAt = &now
	booking.CancellationReason = reasonPtr

	if booking.TransactionID != nil {
		if _, err := s.transactions.VoidPending(ctx, *booking.TransactionID, "booking cancelled"); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to void transaction of cancelled booking", err, map[string]interface{}{
				"booking_id":     booking.ID.String(),
				"transaction_id": booking.TransactionID.String(),
			})
		}
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.BookingSlotID, reason)
	return booking, nil
}

func (s *service) MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*BookingRequest, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, booking, StatusNoShow, map[string]interface{}{}); err != nil {
		return nil, err
	}
	return booking, nil
}

// CompleteEndedBookings moves confirmed bookings whose slot has ended by now to completed
func (s *service) CompleteEndedBookings(ctx context.Context, now time.Time, limit int) (int, error) {
	candidates, err := s.repo.ListConfirmedUntil(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}

	completed := 0
	for i := range candidates {
		booking := &candidates[i]
		if booking.EndsAt().After(now) {
			continue
		}
		at := now
		err := s.transition(ctx, booking, StatusCompleted, map[string]interface{}{"completed_at": at})
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return completed, err
		}
		booking.CompletedAt = &at
		completed++
	}
	return completed, nil
}

// transition moves booking to status to, guarding against concurrent writers
func (s *service) transition(ctx context.Context, booking *BookingRequest, to Status, updates map[string]interface{}) error {
	from := booking.Status
	if !from.CanTransitionTo(to) {
		return invalidTransition(from, to)
	}

	updates["status"] = string(to)
	updates["updated_at"] = time.Now()

	applied, err := s.repo.Transition(ctx, booking.ID, from, updates)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if !applied {
		return fmt.Errorf("%w: booking was modified concurrently", ErrInvalidTransition)
	}

	booking.Status = to
	bookingTransitionsTotal.WithLabelValues(string(to)).Inc()
	return nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingRequest, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, status *Status) ([]BookingRequest, error) {
	if err := validateFilter(status); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

func (s *service) GetContentBookings(ctx context.Context, contentID uuid.UUID, status *Status) ([]BookingRequest, error) {
	if err := validateFilter(status); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByContent(ctx, contentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list content bookings: %w", err)
	}
	return bookings, nil
}

func validateFilter(status *Status) error {
	if status != nil && !status.IsValid() {
		return apperr.Invalid(fmt.Sprintf("unknown booking status %q", *status))
	}
	return nil
}

func invalidTransition(from, to Status) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
