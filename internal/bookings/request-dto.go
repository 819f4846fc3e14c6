package bookings

import "bookly/internal/shared/types"

// CreateBookingRequest represents the body of POST /bookings
type CreateBookingRequest struct {
	ContentID       string            `json:"content_id" binding:"required,uuid"`
	Date            string            `json:"date" binding:"required,isodate"`
	StartTime       string            `json:"start_time" binding:"required,hhmm"`
	EndTime         string            `json:"end_time" binding:"omitempty,hhmm"`
	PartySize       int               `json:"party_size" binding:"required,min=1"`
	SpecialRequests string            `json:"special_requests" binding:"max=1000"`
	ContactInfo     types.ContactInfo `json:"contact_info" binding:"required"`
}

// ConfirmBookingRequest represents the body of POST /bookings/:id/confirm
type ConfirmBookingRequest struct {
	PaymentReference string `json:"payment_reference" binding:"max=255"`
}

// CancelBookingRequest represents the body of POST /bookings/:id/cancel
type CancelBookingRequest struct {
	Reason         string `json:"reason" binding:"max=500"`
	NotifyWaitlist bool   `json:"notify_waitlist"`
}

// BookingListQuery filters booking lists by status
type BookingListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed no_show"`
}
