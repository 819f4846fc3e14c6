package recurring

import (
	"time"

	"bookly/internal/bookings"
	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// RecurringBooking is the template a series of individual bookings was expanded from
type RecurringBooking struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	ContentID       uuid.UUID         `gorm:"type:uuid;index;not null" json:"content_id"`
	Pattern         Pattern           `gorm:"type:varchar(10);not null;check:pattern IN ('daily', 'weekly', 'monthly')" json:"pattern"`
	StartDate       time.Time         `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time         `gorm:"type:date;not null" json:"end_date"`
	StartTime       string            `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime         string            `gorm:"type:varchar(5);not null" json:"end_time"`
	Frequency       int               `gorm:"not null;check:frequency >= 1" json:"frequency"`
	MaxOccurrences  *int              `gorm:"check:max_occurrences >= 1" json:"max_occurrences,omitempty"`
	PartySize       int               `gorm:"not null;check:party_size > 0" json:"party_size"`
	SpecialRequests *string           `gorm:"type:text" json:"special_requests,omitempty"`
	ContactInfo     types.ContactInfo `gorm:"type:jsonb" json:"contact_info"`
	IsActive        bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TableName sets the table name for RecurringBooking
func (RecurringBooking) TableName() string {
	return "recurring_bookings"
}

// Schedule returns the occurrence schedule of the template
func (r *RecurringBooking) Schedule() Schedule {
	return Schedule{
		Pattern:        r.Pattern,
		Start:          r.StartDate,
		End:            r.EndDate,
		Frequency:      r.Frequency,
		MaxOccurrences: r.MaxOccurrences,
	}
}

// TimeSlot is the daily window every occurrence is booked for
type TimeSlot struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"omitempty,hhmm"`
}

// RecurringInput describes a recurring booking to expand
type RecurringInput struct {
	Pattern         Pattern
	StartDate       time.Time
	EndDate         time.Time
	TimeSlot        TimeSlot
	Frequency       int
	MaxOccurrences  *int
	PartySize       int
	SpecialRequests string
	ContactInfo     types.ContactInfo
}

// SkippedOccurrence is an occurrence date that could not be booked
type SkippedOccurrence struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// RecurringResult is the template with the bookings that were actually created
type RecurringResult struct {
	RecurringBooking   *RecurringBooking         `json:"recurring_booking"`
	IndividualBookings []bookings.BookingRequest `json:"-"`
	Attempted          int                       `json:"attempted"`
	Skipped            []SkippedOccurrence       `json:"skipped"`
}
