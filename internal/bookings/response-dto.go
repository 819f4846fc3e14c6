package bookings

import (
	"time"

	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID                 uuid.UUID         `json:"id"`
	UserID             uuid.UUID         `json:"user_id"`
	ContentID          uuid.UUID         `json:"content_id"`
	BookingSlotID      string            `json:"booking_slot_id"`
	Date               string            `json:"date"`
	StartTime          string            `json:"start_time"`
	EndTime            string            `json:"end_time"`
	PartySize          int               `json:"party_size"`
	TotalPrice         float64           `json:"total_price"`
	Currency           string            `json:"currency"`
	Status             Status            `json:"status"`
	SpecialRequests    *string           `json:"special_requests,omitempty"`
	ContactInfo        types.ContactInfo `json:"contact_info"`
	TransactionID      *uuid.UUID        `json:"transaction_id,omitempty"`
	RecurringBookingID *uuid.UUID        `json:"recurring_booking_id,omitempty"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// BookingListResponse wraps a list of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Count    int               `json:"count"`
}

// CancelBookingResponse reports the cancelled booking and any waitlist admissions it caused
type CancelBookingResponse struct {
	Booking           BookingResponse `json:"booking"`
	WaitlistNotified  int             `json:"waitlist_notified"`
	WaitlistTriggered bool            `json:"waitlist_triggered"`
}
