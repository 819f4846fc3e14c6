package availability

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is a weekly recurring window in which a content can be booked
type AvailabilityRule struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"content_id"`
	DayOfWeek   int       `gorm:"type:smallint;not null;check:day_of_week BETWEEN 0 AND 6" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	MaxCapacity int       `gorm:"not null;check:max_capacity >= 0" json:"max_capacity"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Exceptions []RuleException `json:"exceptions,omitempty" gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE;"`
}

// RuleException overrides one rule on one calendar date
type RuleException struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RuleID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rule_exception_date" json:"rule_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_rule_exception_date" json:"date"`
	IsAvailable    bool      `gorm:"not null" json:"is_available"`
	CustomPrice    *float64  `json:"custom_price,omitempty"`
	CustomCapacity *int      `gorm:"check:custom_capacity >= 0" json:"custom_capacity,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BookingSlot is a concrete bookable occurrence derived from a rule. It is never stored.
type BookingSlot struct {
	ID              string    `json:"id"`
	RuleID          uuid.UUID `json:"rule_id"`
	ContentID       uuid.UUID `json:"content_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	MaxCapacity     int       `json:"max_capacity"`
	CurrentBookings int       `json:"current_bookings"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	IsAvailable     bool      `json:"is_available"`
}

// SlotCheck is the answer of the capacity checker
type SlotCheck struct {
	Available bool         `json:"available"`
	Slot      *BookingSlot `json:"slot,omitempty"`
}

// TableName sets the table name for AvailabilityRule
func (AvailabilityRule) TableName() string {
	return "availability_rules"
}

// TableName sets the table name for RuleException
func (RuleException) TableName() string {
	return "availability_exceptions"
}

// ExceptionOn returns the rule's exception for date, if any
func (r *AvailabilityRule) ExceptionOn(date time.Time) *RuleException {
	key := FormatDate(date)
	for i := range r.Exceptions {
		if FormatDate(r.Exceptions[i].Date) == key {
			return &r.Exceptions[i]
		}
	}
	return nil
}

// Remaining is the capacity still free on the slot, never negative
func (s *BookingSlot) Remaining() int {
	if s.CurrentBookings >= s.MaxCapacity {
		return 0
	}
	return s.MaxCapacity - s.CurrentBookings
}

// Fits reports whether a party of the given size can still be admitted
func (s *BookingSlot) Fits(partySize int) bool {
	return s.IsAvailable && s.CurrentBookings+partySize <= s.MaxCapacity
}
