package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookly/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Enqueue assigns the next position of the entry's slot and inserts it
	Enqueue(ctx context.Context, entry *WaitlistEntry) error
	ListBySlot(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error)
	// Delete reports whether this call removed the entry
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteForUser(ctx context.Context, userID, contentID uuid.UUID, date time.Time, slotTime string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Enqueue computes max(position)+1 and inserts under a transaction-scoped advisory
// lock on the slot, so concurrent joins of one slot never share a position.
func (r *repository) Enqueue(ctx context.Context, entry *WaitlistEntry) error {
	slotID := availability.SlotID(entry.ContentID, entry.PreferredDate, entry.PreferredTime)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "waitlist:"+slotID).Error; err != nil {
			return fmt.Errorf("failed to lock waitlist: %w", err)
		}

		var existing int64
		err := tx.Model(&WaitlistEntry{}).
			Where("user_id = ? AND content_id = ? AND preferred_date = ? AND preferred_time = ?",
				entry.UserID, entry.ContentID, entry.PreferredDate, entry.PreferredTime).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check waitlist membership: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyWaitlisted
		}

		var last int64
		err = tx.Model(&WaitlistEntry{}).
			Select("COALESCE(MAX(position), 0)").
			Where("content_id = ? AND preferred_date = ? AND preferred_time = ?",
				entry.ContentID, entry.PreferredDate, entry.PreferredTime).
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("failed to read waitlist tail: %w", err)
		}

		entry.Position = int(last) + 1
		return tx.Create(entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyWaitlisted
	}
	return err
}

func (r *repository) ListBySlot(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND preferred_date = ? AND preferred_time = ?", contentID, date, slotTime).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&WaitlistEntry{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *repository) DeleteForUser(ctx context.Context, userID, contentID uuid.UUID, date time.Time, slotTime string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND preferred_date = ? AND preferred_time = ?", userID, contentID, date, slotTime).
		Delete(&WaitlistEntry{})
	return result.RowsAffected > 0, result.Error
}
