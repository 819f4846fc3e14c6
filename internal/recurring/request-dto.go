package recurring

import "bookly/internal/shared/types"

// CreateRecurringBookingRequest represents the body of POST /recurring-bookings
type CreateRecurringBookingRequest struct {
	ContentID       string            `json:"content_id" binding:"required,uuid"`
	Pattern         string            `json:"pattern" binding:"required,oneof=daily weekly monthly"`
	StartDate       string            `json:"start_date" binding:"required,isodate"`
	EndDate         string            `json:"end_date" binding:"required,isodate"`
	TimeSlot        TimeSlot          `json:"time_slot" binding:"required"`
	Frequency       int               `json:"frequency" binding:"omitempty,min=1"`
	MaxOccurrences  *int              `json:"max_occurrences" binding:"omitempty,min=1"`
	PartySize       int               `json:"party_size" binding:"required,min=1"`
	SpecialRequests string            `json:"special_requests" binding:"max=1000"`
	ContactInfo     types.ContactInfo `json:"contact_info" binding:"required"`
}
