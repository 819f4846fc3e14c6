package bookings

import (
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// BookingRequest is a customer's reservation of part of one slot's capacity
type BookingRequest struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	ContentID          uuid.UUID         `gorm:"type:uuid;index:idx_booking_content_date;not null" json:"content_id"`
	BookingSlotID      string            `gorm:"type:varchar(64);index;not null" json:"booking_slot_id"`
	Date               time.Time         `gorm:"type:date;index:idx_booking_content_date;not null" json:"date"`
	StartTime          string            `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime            string            `gorm:"type:varchar(5);not null" json:"end_time"`
	PartySize          int               `gorm:"not null;check:party_size > 0" json:"party_size"`
	TotalPrice         float64           `gorm:"not null" json:"total_price"`
	Currency           string            `gorm:"type:varchar(3);not null" json:"currency"`
	Status             Status            `gorm:"type:varchar(20);not null;index;check:status IN ('pending', 'confirmed', 'cancelled', 'completed', 'no_show')" json:"status"`
	SpecialRequests    *string           `gorm:"type:text" json:"special_requests,omitempty"`
	ContactInfo        types.ContactInfo `gorm:"type:jsonb" json:"contact_info"`
	TransactionID      *uuid.UUID        `gorm:"type:uuid" json:"transaction_id,omitempty"`
	RecurringBookingID *uuid.UUID        `gorm:"type:uuid;index" json:"recurring_booking_id,omitempty"`
	CancellationReason *string           `gorm:"type:text" json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TableName sets the table name for BookingRequest
func (BookingRequest) TableName() string {
	return "booking_requests"
}

// CreateBookingInput describes the slot and party a booking is requested for
type CreateBookingInput struct {
	Date               time.Time
	StartTime          string
	EndTime            string
	PartySize          int
	SpecialRequests    string
	ContactInfo        types.ContactInfo
	RecurringBookingID *uuid.UUID
}

// EndsAt is the instant the booked slot ends, in UTC
func (b *BookingRequest) EndsAt() time.Time {
	end, err := time.Parse(availability.ClockLayout, b.EndTime)
	if err != nil {
		return availability.TruncateDate(b.Date).AddDate(0, 0, 1)
	}
	return availability.TruncateDate(b.Date).Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
}

// ToResponse converts the booking to its API shape
func (b *BookingRequest) ToResponse() BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		ContentID:          b.ContentID,
		BookingSlotID:      b.BookingSlotID,
		Date:               availability.FormatDate(b.Date),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		PartySize:          b.PartySize,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             b.Status,
		SpecialRequests:    b.SpecialRequests,
		ContactInfo:        b.ContactInfo,
		TransactionID:      b.TransactionID,
		RecurringBookingID: b.RecurringBookingID,
		CancellationReason: b.CancellationReason,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// ToResponses converts a list of bookings
func ToResponses(bookings []BookingRequest) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookings[i].ToResponse())
	}
	return out
}
