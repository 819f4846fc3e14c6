package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes that capacity accounting and transaction lookup rely on
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// active bookings of a slot are summed on every reservation
		`CREATE INDEX IF NOT EXISTS idx_booking_requests_active_slot
			ON booking_requests (booking_slot_id)
			WHERE status IN ('pending', 'confirmed')`,
		// the completion sweeper scans confirmed bookings by date
		`CREATE INDEX IF NOT EXISTS idx_booking_requests_confirmed_date
			ON booking_requests (date, end_time)
			WHERE status = 'confirmed'`,
		`CREATE INDEX IF NOT EXISTS idx_booking_transactions_pending
			ON booking_transactions (user_id, content_id, created_at DESC)
			WHERE status = 'pending'`,
		// one active rule per derived slot id
		`DROP INDEX IF EXISTS idx_availability_rules_active_content`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_availability_rules_active_slot
			ON availability_rules (content_id, day_of_week, start_time)
			WHERE is_active`,
	}

	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}
