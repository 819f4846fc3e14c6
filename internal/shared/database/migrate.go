package database

import (
	"bookly/internal/availability"
	"bookly/internal/bookings"
	"bookly/internal/payments"
	"bookly/internal/recurring"
	"bookly/internal/waitlist"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&availability.AvailabilityRule{},
		&availability.RuleException{},
		&recurring.RecurringBooking{},
		&bookings.BookingRequest{},
		&payments.Transaction{},
		&waitlist.WaitlistEntry{},
	)
}
