package bookings

import (
	"context"
	"fmt"
	"time"

	"bookly/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Concurrency-safe booking creation
	CreateWithCapacityGuard(ctx context.Context, booking *BookingRequest, maxCapacity int) error

	// Core booking operations
	GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error)
	Transition(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) (bool, error)
	SetTransactionID(ctx context.Context, id, transactionID uuid.UUID) error

	// Listing
	ListByUser(ctx context.Context, userID uuid.UUID, status *Status) ([]BookingRequest, error)
	ListByContent(ctx context.Context, contentID uuid.UUID, status *Status) ([]BookingRequest, error)
	ListConfirmedUntil(ctx context.Context, date time.Time, limit int) ([]BookingRequest, error)

	// Capacity accounting
	ActivePartySizes(ctx context.Context, contentID uuid.UUID, from, to time.Time) (availability.BookingCounts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithCapacityGuard inserts the booking only if the slot still has room for its party.
// Writers of the same slot are serialized by a transaction-scoped advisory lock on the slot id.
func (r *repository) CreateWithCapacityGuard(ctx context.Context, booking *BookingRequest, maxCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", booking.BookingSlotID).Error; err != nil {
			return fmt.Errorf("failed to lock slot: %w", err)
		}

		var taken int64
		err := tx.Model(&BookingRequest{}).
			Select("COALESCE(SUM(party_size), 0)").
			Where("booking_slot_id = ? AND status IN ?", booking.BookingSlotID, activeStatusValues()).
			Scan(&taken).Error
		if err != nil {
			return fmt.Errorf("failed to sum slot bookings: %w", err)
		}

		if int(taken)+booking.PartySize > maxCapacity {
			return ErrSlotUnavailable
		}

		return tx.Create(booking).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	var booking BookingRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Transition applies updates only while the booking is still in status from.
// It reports false when another writer moved the booking first.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&BookingRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

func (r *repository) SetTransactionID(ctx context.Context, id, transactionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&BookingRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transaction_id": transactionID,
			"updated_at":     time.Now(),
		}).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, status *Status) ([]BookingRequest, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), status)
}

func (r *repository) ListByContent(ctx context.Context, contentID uuid.UUID, status *Status) ([]BookingRequest, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("content_id = ?", contentID), status)
}

func (r *repository) list(ctx context.Context, query *gorm.DB, status *Status) ([]BookingRequest, error) {
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var bookings []BookingRequest
	err := query.
		Order("date ASC, start_time ASC, created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListConfirmedUntil returns confirmed bookings dated on or before date, oldest first
func (r *repository) ListConfirmedUntil(ctx context.Context, date time.Time, limit int) ([]BookingRequest, error) {
	var bookings []BookingRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND date <= ?", string(StatusConfirmed), availability.FormatDate(date)).
		Order("date ASC, end_time ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// ActivePartySizes sums pending and confirmed party sizes per slot of a content within [from, to]
func (r *repository) ActivePartySizes(ctx context.Context, contentID uuid.UUID, from, to time.Time) (availability.BookingCounts, error) {
	var rows []struct {
		BookingSlotID string
		Taken         int
	}
	err := r.db.WithContext(ctx).
		Model(&BookingRequest{}).
		Select("booking_slot_id, SUM(party_size) AS taken").
		Where("content_id = ? AND date BETWEEN ? AND ? AND status IN ?",
			contentID, availability.FormatDate(from), availability.FormatDate(to), activeStatusValues()).
		Group("booking_slot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(availability.BookingCounts, len(rows))
	for _, row := range rows {
		counts[row.BookingSlotID] = row.Taken
	}
	return counts, nil
}
